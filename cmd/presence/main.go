// presence shows a rich presence activity for an application until it is
// interrupted or a duration elapses.
//
//	presence --client-id 123456789 --state "In a match" --details Ranked
//	presence --simulate --client-id 1 --activity activity.yaml --duration 30s
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/opd-ai/gamesdk"
	"github.com/opd-ai/gamesdk/config"
	"github.com/opd-ai/gamesdk/factory"
	"github.com/opd-ai/gamesdk/model"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

type options struct {
	cfg      config.Config
	activity string
	state    string
	details  string
	duration time.Duration
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (*options, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	opts := &options{cfg: *cfg}

	fs := pflag.NewFlagSet("presence", pflag.ContinueOnError)
	fs.Int64Var(&opts.cfg.ClientID, "client-id", cfg.ClientID, "application id")
	fs.StringVar(&opts.cfg.LibraryPath, "library", cfg.LibraryPath, "path to the native SDK library")
	fs.BoolVar(&opts.cfg.UseSimulation, "simulate", cfg.UseSimulation, "use the in-memory backend")
	fs.StringVar(&opts.cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&opts.activity, "activity", "", "YAML file describing the activity")
	fs.StringVar(&opts.state, "state", "", "activity state, overrides the file")
	fs.StringVar(&opts.details, "details", "", "activity details, overrides the file")
	fs.DurationVar(&opts.duration, "duration", 0, "exit after this long (0 runs until interrupted)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}
	if err := opts.cfg.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

func (o *options) buildActivity(now time.Time) (model.Activity, error) {
	p := &profile{}
	if o.activity != "" {
		loaded, err := loadProfile(o.activity)
		if err != nil {
			return model.Activity{}, err
		}
		p = loaded
	}
	if o.state != "" {
		p.State = o.state
	}
	if o.details != "" {
		p.Details = o.details
	}
	return p.activity(now), nil
}

// logger forwards session events to logrus.
type logger struct {
	gamesdk.EventAdapter
}

func (logger) OnActivityJoin(secret string) {
	logrus.WithFields(logrus.Fields{
		"function": "presence.OnActivityJoin",
		"secret":   secret,
	}).Info("Join requested through activity")
}

func (logger) OnActivityJoinRequest(user *model.User) {
	fields := logrus.Fields{"function": "presence.OnActivityJoinRequest"}
	if user != nil {
		fields["user"] = user.Username
	}
	logrus.WithFields(fields).Info("User asked to join")
}

func (logger) OnCurrentUserUpdate() {
	logrus.WithField("function", "presence.OnCurrentUserUpdate").Debug("Current user updated")
}

func run(ctx context.Context, args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}
	if err := opts.cfg.ApplyLogLevel(); err != nil {
		return err
	}
	activity, err := opts.buildActivity(time.Now())
	if err != nil {
		return err
	}

	f, err := factory.NewSDKFactory(&opts.cfg)
	if err != nil {
		return err
	}
	core, err := f.CreateCore(logger{})
	if err != nil {
		return err
	}
	defer core.Destroy()

	err = core.SetLogHook(model.LogLevelInfo, func(level model.LogLevel, msg string) {
		logrus.WithFields(logrus.Fields{
			"function": "presence.logHook",
			"native":   true,
		}).Log(logrusLevel(level), msg)
	})
	if err != nil {
		return err
	}

	err = core.ActivityManager().UpdateActivity(activity, func(r model.Result) {
		entry := logrus.WithFields(logrus.Fields{
			"function": "presence.UpdateActivity",
			"result":   r.String(),
		})
		if !r.Ok() {
			entry.Error("Activity update failed")
			return
		}
		entry.Info("Activity shown")
	})
	if err != nil {
		return err
	}

	return pump(ctx, core, opts.cfg.PumpInterval, opts.duration)
}

// pump calls RunCallbacks every interval until ctx is done or duration
// elapses.
func pump(ctx context.Context, core *gamesdk.Core, interval, duration time.Duration) error {
	if duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, duration)
		defer cancel()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// One last pump delivers results that are already queued.
			return core.RunCallbacks()
		case <-ticker.C:
			if err := core.RunCallbacks(); err != nil {
				return err
			}
		}
	}
}

// logrusLevel maps a native log severity onto logrus.
func logrusLevel(l model.LogLevel) logrus.Level {
	switch l {
	case model.LogLevelError:
		return logrus.ErrorLevel
	case model.LogLevelWarn:
		return logrus.WarnLevel
	case model.LogLevelDebug:
		return logrus.DebugLevel
	default:
		return logrus.InfoLevel
	}
}
