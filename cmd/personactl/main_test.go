package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestSelectFromBook(t *testing.T) {
	out, err := run(t, "select", "--moves", "e2e4", "--persona", "legend", "--seed", "3")
	if err != nil {
		t.Fatal(err)
	}
	var got struct {
		Persona string `json:"persona"`
		Move    struct {
			From string `json:"from"`
			To   string `json:"to"`
		} `json:"move"`
		Path string `json:"path"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output %q: %v", out, err)
	}
	if got.Move.From != "c7" || got.Move.To != "c5" || got.Path != "book" || got.Persona != "legend" {
		t.Fatalf("got = %+v", got)
	}
}

func TestSelectRejectsIllegalHistory(t *testing.T) {
	if _, err := run(t, "select", "--moves", "e2e5"); err == nil {
		t.Fatal("illegal history accepted")
	}
}

func TestExplainRanksMateFirst(t *testing.T) {
	out, err := run(t, "explain", "--fen", "6k1/5ppp/8/7q/8/6N1/1K6/R7 w - - 0 1", "--persona", "legend")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) < 3 || !strings.HasPrefix(lines[2], "a1a8") {
		t.Fatalf("explain output:\n%s", out)
	}
}

func TestPersonasListsTiers(t *testing.T) {
	out, err := run(t, "personas")
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"novice", "casual", "club", "master", "legend"} {
		if !strings.Contains(out, name) {
			t.Fatalf("missing %s in:\n%s", name, out)
		}
	}
}

func TestClockSimulateTimeout(t *testing.T) {
	out, err := run(t, "clock", "simulate", "--preset", "blitz", "--side", "player", "--seconds", "301")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "timeout: player (1)") || !strings.Contains(out, "player 0:00") {
		t.Fatalf("simulate output:\n%s", out)
	}
}

func TestClockSimulateUnknownPreset(t *testing.T) {
	if _, err := run(t, "clock", "simulate", "--preset", "hyper"); err == nil {
		t.Fatal("unknown preset accepted")
	}
}
