package common

import (
	"context"
	"testing"

	"github.com/spf13/cobra"
)

func TestFromCommand(t *testing.T) {
	cmd := &cobra.Command{}
	if _, err := FromCommand(cmd); err == nil {
		t.Fatal("expected error without context")
	}

	cmd.SetContext(context.Background())
	if _, err := FromCommand(cmd); err == nil {
		t.Fatal("expected error without app context")
	}

	want := &AppContext{Options: GlobalOptions{JSON: true}}
	cmd.SetContext(context.WithValue(context.Background(), ContextKeyApp, want))
	got, err := FromCommand(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Fatalf("unexpected app context %+v", got)
	}
}
