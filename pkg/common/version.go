// Package common provides ambient utilities shared by every RPOS package:
// structured logging, process configuration, version reporting, and
// standardized error mapping for responses returned over the control socket.
package common

// Version is the current version of the rpos-go runtime.
const Version = "0.1.0"
