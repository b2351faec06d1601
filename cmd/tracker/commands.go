// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zeebo/errs"
	"go.uber.org/zap"

	"storj.io/common/process"
	"storj.io/tracker/tracker"
)

// withEnvironment runs fn with an environment built from runCfg.
func withEnvironment(cmd *cobra.Command, fn func(ctx context.Context, env *environment) error) (err error) {
	ctx, _ := process.Ctx(cmd)

	env, err := openEnvironment(ctx, zap.L(), runCfg, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer func() { err = errs.Combine(err, env.Close(context.WithoutCancel(ctx))) }()

	return fn(ctx, env)
}

func cmdEvent(cmd *cobra.Command, args []string) error {
	return withEnvironment(cmd, func(ctx context.Context, env *environment) error {
		extra, err := parseFields(args[1:])
		if err != nil {
			return err
		}
		env.Tracker().LogEvent(args[0], extra)
		return nil
	})
}

func cmdMessage(cmd *cobra.Command, args []string) error {
	return withEnvironment(cmd, func(ctx context.Context, env *environment) error {
		env.Tracker().LogMessage(args[0], messageLevel)
		return nil
	})
}

func cmdMetric(cmd *cobra.Command, args []string) error {
	value, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return errs.New("invalid metric value %q: %v", args[1], err)
	}
	return withEnvironment(cmd, func(ctx context.Context, env *environment) error {
		env.Tracker().LogMetric(args[0], value)
		return nil
	})
}

func cmdException(cmd *cobra.Command, args []string) error {
	return withEnvironment(cmd, func(ctx context.Context, env *environment) error {
		env.Tracker().OnError(args[0], "", 0, 0, nil)
		return nil
	})
}

func cmdPush(cmd *cobra.Command, args []string) error {
	return withEnvironment(cmd, func(ctx context.Context, env *environment) error {
		return push(env, cmd.InOrStdin())
	})
}

// push buffers every item read from in before installing the tracker, which
// then drains them in order.
func push(env *environment, in io.Reader) error {
	queue, err := readQueue(in)
	if err != nil {
		return err
	}

	var handle tracker.Handle
	for _, item := range queue {
		handle.Push(item)
	}

	tr, err := handle.Install(env.newTracker)
	if err != nil {
		return err
	}
	env.tracker = tr
	return nil
}

func cmdTime(cmd *cobra.Command, args []string) error {
	return withEnvironment(cmd, func(ctx context.Context, env *environment) error {
		return timeCommand(ctx, env.Tracker(), args[0], args[1:], cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
	})
}

// timeCommand runs command and sends its duration as the metric name.
func timeCommand(ctx context.Context, tr *tracker.Tracker, name string, command []string, stdin io.Reader, stdout, stderr io.Writer) error {
	run := exec.CommandContext(ctx, command[0], command[1:]...)
	run.Stdin, run.Stdout, run.Stderr = stdin, stdout, stderr
	run.Env = os.Environ()

	tr.StartTimer(name)
	err := run.Run()
	tr.StopTimer(name)

	return err
}

func cmdSession(cmd *cobra.Command, args []string) error {
	return withEnvironment(cmd, func(ctx context.Context, env *environment) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), env.Tracker().SetSession(""))
		return err
	})
}

// parseFields parses KEY=VALUE pairs. Values are decoded as JSON when
// possible and kept as strings otherwise.
func parseFields(args []string) (tracker.Payload, error) {
	fields := tracker.Payload{}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, errs.New("invalid field %q, expected KEY=VALUE", arg)
		}

		var decoded any
		if err := json.Unmarshal([]byte(value), &decoded); err == nil {
			fields[key] = decoded
		} else {
			fields[key] = value
		}
	}
	return fields, nil
}

// readQueue reads one item per line. Lines holding JSON are decoded, other
// lines are queued as strings.
func readQueue(in io.Reader) (tracker.Queue, error) {
	var queue tracker.Queue

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if json.Valid([]byte(line)) {
			queue = append(queue, tracker.DecodeItem([]byte(line)))
			continue
		}
		queue = append(queue, line)
	}
	return queue, errs.Wrap(scanner.Err())
}
