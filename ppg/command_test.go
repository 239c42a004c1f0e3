package ppg

import "testing"

func TestEncodeSubscribe(t *testing.T) {
	data, err := EncodeCommand(SubscribeCommand{Channel: "manifest"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := `{"type":"subscribe","channel":"manifest"}`
	if string(data) != want {
		t.Fatalf("got %s, want %s", data, want)
	}
}

func TestEncodeUnsubscribe(t *testing.T) {
	data, err := EncodeCommand(UnsubscribeCommand{Channel: "terminal:a1"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := `{"type":"unsubscribe","channel":"terminal:a1"}`
	if string(data) != want {
		t.Fatalf("got %s, want %s", data, want)
	}
}

func TestEncodeTerminalInput(t *testing.T) {
	data, err := EncodeCommand(TerminalInputCommand{AgentID: "a1", Data: "ls\n"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := `{"type":"terminal_input","agentId":"a1","data":"ls\n"}`
	if string(data) != want {
		t.Fatalf("got %s, want %s", data, want)
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	cmd := TerminalInputCommand{AgentID: "a1", Data: "x"}
	first, _ := EncodeCommand(cmd)
	for i := 0; i < 10; i++ {
		again, _ := EncodeCommand(cmd)
		if string(again) != string(first) {
			t.Fatalf("non-deterministic encoding: %s vs %s", again, first)
		}
	}
}
