package rcon_test

import (
	"bytes"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/craftctl-project/craftctl/internal/rcon"
)

func TestPacketRoundTrip(t *testing.T) {
	packets := []rcon.Packet{
		{ID: 0, Kind: 0, Payload: ""},
		{ID: 42, Kind: rcon.KindExecCommand, Payload: "info"},
		{ID: 1, Kind: rcon.KindAuthenticate, Payload: "hunter2"},
		{ID: -1, Kind: rcon.KindAuthenticate, Payload: ""},
		{ID: 7, Kind: rcon.KindExecCommand, Payload: "say héllo wörld ✓"},
		{ID: 9, Kind: rcon.KindExecCommand, Payload: strings.Repeat("x", rcon.MaxPacketSize-rcon.MinPacketSize)},
	}

	for _, want := range packets {
		var buf bytes.Buffer
		if err := rcon.WritePacket(&buf, want); err != nil {
			t.Fatalf("WritePacket(%+v) failed: %s", want, err)
		}

		got, err := rcon.ReadPacket(&buf)
		if err != nil {
			t.Fatalf("ReadPacket after WritePacket(%+v) failed: %s", want, err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("packet round trip mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestPacketWireFixture(t *testing.T) {
	// [size=14][id=42][kind=2]"info"[00 00], all little-endian.
	const fixture = "0e0000002a00000002000000696e666f0000"

	var buf bytes.Buffer
	err := rcon.WritePacket(&buf, rcon.Packet{ID: 42, Kind: rcon.KindExecCommand, Payload: "info"})
	if err != nil {
		t.Fatalf("WritePacket failed: %s", err)
	}
	if got := hex.EncodeToString(buf.Bytes()); got != fixture {
		t.Fatalf("encoded frame mismatch\n got: %s\nwant: %s", got, fixture)
	}

	got, err := rcon.ReadPacket(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadPacket failed: %s", err)
	}
	want := rcon.Packet{ID: 42, Kind: rcon.KindExecCommand, Payload: "info"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("decoded packet mismatch (-want +got):\n%s", diff)
	}
}

func TestReadPacketRejectsBadSizes(t *testing.T) {
	fixtures := []string{
		"09000000", // one below the minimum
		"00000000", // zero
		"d6ffffff", // negative
		"01100000", // one above the maximum (4097)
		"ffffff7f", // absurdly large
	}

	for _, fx := range fixtures {
		raw, err := hex.DecodeString(fx)
		if err != nil {
			t.Fatalf("bad hex in test table %q: %s", fx, err)
		}

		_, err = rcon.ReadPacket(bytes.NewReader(raw))
		var fe *rcon.FramingError
		if !errors.As(err, &fe) {
			t.Fatalf("ReadPacket(%s) = %v, want *FramingError", fx, err)
		}
	}
}

func TestReadPacketLossyPayloadDecoding(t *testing.T) {
	// A frame whose payload contains an invalid UTF-8 byte (0xff). The
	// decoder must substitute it rather than fail: a malformed server reply
	// must never crash the console.
	raw, err := hex.DecodeString("0d000000" + "2a000000" + "00000000" + "68ff69" + "0000")
	if err != nil {
		t.Fatal(err)
	}

	p, err := rcon.ReadPacket(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("ReadPacket failed on invalid UTF-8 payload: %s", err)
	}
	if p.Payload != "h�i" {
		t.Fatalf("lossy decode mismatch: got %q, want %q", p.Payload, "h�i")
	}
}

func TestReadPacketTruncatedBody(t *testing.T) {
	// Declared size of 10 but only one body byte available.
	raw, err := hex.DecodeString("0a00000011")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := rcon.ReadPacket(bytes.NewReader(raw)); err == nil {
		t.Fatal("ReadPacket succeeded on a truncated frame")
	}
}

func TestWritePacketRejectsOversizedPayload(t *testing.T) {
	p := rcon.Packet{Payload: strings.Repeat("x", rcon.MaxPacketSize)}

	var buf bytes.Buffer
	err := rcon.WritePacket(&buf, p)
	var fe *rcon.FramingError
	if !errors.As(err, &fe) {
		t.Fatalf("WritePacket on oversized payload = %v, want *FramingError", err)
	}
}
