package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/firefly-engineering/proxyctl/internal/system"
)

func TestSend(t *testing.T) {
	exec := system.NewMockExecutor()
	New(exec, true).Send(context.Background(), UrgencyNormal, "Proxy enabled", "172.31.5.9:3128")

	cmd, ok := exec.LastCommand()
	if !ok {
		t.Fatal("no command run")
	}
	want := "notify-send --app-name=proxyctl --urgency=normal --icon=network-wired Proxy enabled 172.31.5.9:3128"
	if cmd.String() != want {
		t.Errorf("command = %q, want %q", cmd.String(), want)
	}
}

func TestSend_Disabled(t *testing.T) {
	exec := system.NewMockExecutor()
	New(exec, false).Send(context.Background(), UrgencyLow, "x", "")
	var nilNotifier *Notifier
	nilNotifier.Send(context.Background(), UrgencyLow, "x", "")

	if len(exec.Commands) != 0 {
		t.Errorf("disabled notifier ran %v", exec.CommandLines())
	}
}

func TestSend_Failures(t *testing.T) {
	exec := system.NewMockExecutor()
	exec.SetMissing("notify-send")
	New(exec, true).Send(context.Background(), UrgencyCritical, "x", "")
	if len(exec.Commands) != 0 {
		t.Error("nothing should run without notify-send")
	}

	exec = system.NewMockExecutor()
	exec.AddResponse("notify-send", []byte("no bus"), errors.New("exit status 1"))
	New(exec, true).Send(context.Background(), UrgencyCritical, "x", "")
	if len(exec.Commands) != 1 {
		t.Error("notify-send should have been attempted once")
	}
}
