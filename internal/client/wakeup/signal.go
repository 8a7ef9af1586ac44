// Package wakeup provides wake sources for the connectivity coordinator.
// A wake source stands in for platform background-sync delivery: some
// external party — a process manager, a cron job, another process noticing
// the network came back — asks the client to attempt a sync run.
package wakeup

import (
	"os"
	"os/signal"
	"syscall"
)

// SignalSource delivers a wake request each time the process receives
// SIGUSR1. Requests arriving while one is already queued are coalesced.
type SignalSource struct {
	ch   chan struct{}
	sigs chan os.Signal
}

func NewSignalSource() *SignalSource {
	s := &SignalSource{
		ch:   make(chan struct{}, 1),
		sigs: make(chan os.Signal, 1),
	}
	signal.Notify(s.sigs, syscall.SIGUSR1)
	go func() {
		for range s.sigs {
			select {
			case s.ch <- struct{}{}:
			default:
			}
		}
	}()
	return s
}

func (s *SignalSource) Wake() <-chan struct{} {
	return s.ch
}

// Stop detaches the signal handler and stops delivery.
func (s *SignalSource) Stop() {
	signal.Stop(s.sigs)
	close(s.sigs)
}
