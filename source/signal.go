package source

import (
	"context"
	"os"
	"os/signal"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"

	"github.com/go-kit/toggle"
)

// SignalToggle flips one flag every time one of its signals arrives, e.g.
// SIGUSR1 to switch verbose output on and off in a running process.
type SignalToggle struct {
	group  toggle.Toggler
	flag   string
	sigs   []os.Signal
	logger log.Logger

	notify func(chan<- os.Signal, ...os.Signal)
	stop   func(chan<- os.Signal)
}

// NewSignalToggle returns a SignalToggle for flag of group. It fails if the
// flag is unknown or no signals are given.
func NewSignalToggle(group toggle.Toggler, flag string, logger log.Logger, sigs ...os.Signal) (*SignalToggle, error) {
	st, err := group.State(flag)
	if err != nil {
		return nil, err
	}
	if len(sigs) == 0 {
		return nil, errors.Errorf("signal toggle for %s.%s: no signals", st.Group, st.Name)
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &SignalToggle{
		group:  group,
		flag:   st.Name,
		sigs:   sigs,
		logger: log.With(logger, "component", "signal", "group", st.Group, "flag", st.Name),
		notify: signal.Notify,
		stop:   signal.Stop,
	}, nil
}

// Run handles signals until ctx is cancelled.
func (s *SignalToggle) Run(ctx context.Context) error {
	c := make(chan os.Signal, 1)
	s.notify(c, s.sigs...)
	defer s.stop(c)

	for {
		select {
		case <-ctx.Done():
			return nil
		case sig := <-c:
			enabled, err := s.group.ToggleByName(s.flag)
			if err != nil {
				level.Error(s.logger).Log("signal", sig, "err", err)
				continue
			}
			level.Info(s.logger).Log("signal", sig, "enabled", enabled)
		}
	}
}
