// Command rpos-ctl is a CLI client for rpos-demo's control socket and HTTP
// introspection surface: run a named module over the Unix-domain socket, or
// list the running process's modules/messages over HTTP.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/ncerzzk/rpos-go/pkg/common"
	"github.com/ncerzzk/rpos-go/pkg/control"
)

func main() {
	socketPath := flag.String("socket", common.DefaultControlSocketPath, "control socket path")
	httpAddr := flag.String("http", "http://127.0.0.1"+common.DefaultHTTPAddress, "introspection HTTP base URL")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(2)
	}

	switch args[0] {
	case "run":
		runModule(*socketPath, args[1:])
	case "modules":
		listModules(*httpAddr)
	case "messages":
		listMessages(*httpAddr)
	case "health":
		checkHealth(*httpAddr)
	default:
		printUsage()
		os.Exit(2)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: rpos-ctl [-socket path] [-http url] <run|modules|messages|health> [module args...]")
}

func runModule(socketPath string, args []string) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "rpos-ctl run: missing module name")
		os.Exit(2)
	}

	client := control.NewSocketClient(socketPath)
	resp, err := client.Execute(args[0], args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "rpos-ctl: %v\n", err)
		os.Exit(1)
	}
	if resp.Error != "" {
		fmt.Fprintf(os.Stderr, "rpos-ctl: module error [%s]: %s\n", resp.Code, resp.Error)
		os.Exit(1)
	}
	fmt.Println(resp.Result)
}

func listModules(baseURL string) {
	client := control.NewHTTPClient(baseURL)
	modules, err := client.Modules()
	if err != nil {
		fmt.Fprintf(os.Stderr, "rpos-ctl: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(strings.Join(modules, "\n"))
}

func listMessages(baseURL string) {
	client := control.NewHTTPClient(baseURL)
	messages, err := client.Messages()
	if err != nil {
		fmt.Fprintf(os.Stderr, "rpos-ctl: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(strings.Join(messages, "\n"))
}

func checkHealth(baseURL string) {
	client := control.NewHTTPClient(baseURL)
	healthy, err := client.Healthy()
	if err != nil {
		fmt.Fprintf(os.Stderr, "rpos-ctl: %v\n", err)
		os.Exit(1)
	}
	if !healthy {
		fmt.Fprintln(os.Stderr, "unhealthy")
		os.Exit(1)
	}
	fmt.Println("healthy")
}
