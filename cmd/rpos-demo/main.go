// Command rpos-demo wires the scheduling, timer, messaging and control
// layers together into one long-running process: a periodic producer
// thread, an HRT-driven watchdog, a named message channel, a handful of
// control modules, and both the Unix-domain and HTTP surfaces over them.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ncerzzk/rpos-go/pkg/common"
	"github.com/ncerzzk/rpos-go/pkg/control"
	"github.com/ncerzzk/rpos-go/pkg/hrt"
	"github.com/ncerzzk/rpos-go/pkg/registry"
	"github.com/ncerzzk/rpos-go/pkg/rtclock"
	"github.com/ncerzzk/rpos-go/pkg/sched"
	"github.com/ncerzzk/rpos-go/pkg/workqueue"
)

const tickMessage = "demo.tick"

func main() {
	configFile := flag.String("config", common.DefaultConfigFile, "path to rpos.config.json")
	flag.Parse()

	cfg, err := common.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rpos-demo: failed to load config: %v\n", err)
		os.Exit(1)
	}
	common.SetLevel(common.ParseLevel(cfg.Logging.Level))

	common.Info("starting rpos-demo")

	registry.AddMessage[int64]("demo.tick")
	tx, _ := registry.GetNewTx[int64](tickMessage)
	rx, _ := registry.GetNewRx[int64](tickMessage)

	wq := workqueue.New(cfg.Scheduler.DefaultStackBytes, common.DefaultWorkqueuePriority)

	jitter := sched.NewJitterMonitor(cfg.Scheduler.JitterSamples)

	rx.RegisterCallback("log-tick", func(tick int64) {
		common.Debug("tick observed: %d", tick)
	})

	var tickCount int64
	sched.NewFIFO(cfg.Scheduler.DefaultStackBytes, cfg.Scheduler.DefaultPriority, func(h *sched.Handle) {
		for {
			tickCount++
			tx.Send(tickCount)
			h.ScheduleUntil(10_000) // 10ms period
			jitter.RecordIteration(h)
		}
	})

	watchdogFired := make(chan struct{}, 1)
	hrt.Instance().Add(hrt.NewEntry(rtclock.GetTimeNow().AddNanos(5*time.Second.Nanoseconds()), func() {
		wq.Add(workqueue.CallableFunc(func() {
			common.Info("watchdog fired after startup grace period")
			select {
			case watchdogFired <- struct{}{}:
			default:
			}
		}))
	}))

	control.Register(control.Module{
		Name: "tick_count",
		Init: func(args []string) (string, error) {
			return fmt.Sprintf("%d", tickCount), nil
		},
	})
	control.Register(control.Module{
		Name: "jitter_avg_ns",
		Init: func(args []string) (string, error) {
			return fmt.Sprintf("%d", jitter.Average().Nanoseconds()), nil
		},
	})

	srv, err := control.NewServer(cfg.Control.SocketPath, nil)
	if err != nil {
		common.Fatal("failed to start control socket: %v", err)
	}
	go func() {
		if err := srv.Serve(); err != nil {
			common.Debug("control socket server stopped: %v", err)
		}
	}()
	defer srv.Close()

	monitors := map[string]*sched.JitterMonitor{"producer": jitter}
	router := control.NewHTTPRouter(monitors)
	go func() {
		if err := router.Run(cfg.Control.HTTPAddress); err != nil {
			common.Error("http introspection server stopped: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	common.Info("shutting down rpos-demo")
	wq.Exit()
	wq.Join()
	tx.Close()
	rx.Close()
}
