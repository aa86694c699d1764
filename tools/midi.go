package tools

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/harmonia-ai/harmonia/agent"
)

const (
	ticksPerQuarter = 480
	defaultTempoBPM = 120
	noteVelocity    = 64
)

// midiNote is one entry of the music_text argument after decoding.
type midiNote struct {
	note     int
	duration float64
}

// CreateMidi converts the music_text note/duration tuples into a standard
// MIDI file (format 0, single track) and returns it base64 encoded alongside
// a summary the frontend renders.
func CreateMidi(_ context.Context, args map[string]any) (agent.ToolResult, error) {
	raw, ok := args["music_text"]
	if !ok || raw == nil {
		return nil, fmt.Errorf("missing 'music_text' argument")
	}
	notes, err := decodeMusicText(raw)
	if err != nil {
		return nil, err
	}

	data := encodeSMF(notes)

	summary := make([]map[string]any, 0, len(notes))
	noteCount := 0
	for _, n := range notes {
		summary = append(summary, map[string]any{"note": n.note, "duration": n.duration})
		if n.note != 0 {
			noteCount++
		}
	}

	now := time.Now().UTC()
	return agent.ToolResult{
		"status":         "success",
		"file_id":        fmt.Sprintf("MIDI-%s-%s", now.Format("20060102"), uuid.NewString()[:8]),
		"tempo":          defaultTempoBPM,
		"midi_base64":    base64.StdEncoding.EncodeToString(data),
		"note_count":     noteCount,
		"created_at":     now.Format("2006-01-02 15:04:05"),
		"format_details": "MIDI format 0, single track",
		"notes_summary":  summary,
	}, nil
}

func decodeMusicText(raw any) ([]midiNote, error) {
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("'music_text' must be a list of (note, duration) tuples, got %T", raw)
	}
	notes := make([]midiNote, 0, len(items))
	for _, item := range items {
		pair, ok := item.([]any)
		if !ok || len(pair) != 2 {
			return nil, fmt.Errorf("invalid format for item %v: expected a tuple of (note, duration)", item)
		}
		note, ok := toInt(pair[0])
		if !ok {
			return nil, fmt.Errorf("invalid note %v: must be an integer", pair[0])
		}
		dur, ok := toFloat(pair[1])
		if !ok {
			return nil, fmt.Errorf("invalid duration %v: must be a number", pair[1])
		}
		if note != 0 && (note < 21 || note > 108) {
			return nil, fmt.Errorf("invalid note %d: must be 0 or between 21 and 108", note)
		}
		if dur < 0 || dur > 2 {
			return nil, fmt.Errorf("invalid duration %v: must be between 0 and 2", dur)
		}
		notes = append(notes, midiNote{note: note, duration: dur})
	}
	return notes, nil
}

// encodeSMF renders a format-0 standard MIDI file: one track with a tempo
// meta event followed by note on/off pairs. Silence (note 0) advances time
// without sounding a note. 1.0 duration is a quarter note.
func encodeSMF(notes []midiNote) []byte {
	var track []byte

	// Tempo meta event: microseconds per quarter note.
	usPerQuarter := 60_000_000 / defaultTempoBPM
	track = append(track, encodeVarLen(0)...)
	track = append(track, 0xFF, 0x51, 0x03,
		byte(usPerQuarter>>16), byte(usPerQuarter>>8), byte(usPerQuarter))

	pending := uint32(0) // accumulated silence ticks before the next event
	for _, n := range notes {
		ticks := uint32(n.duration * ticksPerQuarter)
		if n.note == 0 {
			pending += ticks
			continue
		}
		track = append(track, encodeVarLen(pending)...)
		track = append(track, 0x90, byte(n.note), noteVelocity)
		track = append(track, encodeVarLen(ticks)...)
		track = append(track, 0x80, byte(n.note), 0)
		pending = 0
	}

	// End of track.
	track = append(track, encodeVarLen(pending)...)
	track = append(track, 0xFF, 0x2F, 0x00)

	var out []byte
	out = append(out, 'M', 'T', 'h', 'd')
	out = binary.BigEndian.AppendUint32(out, 6)
	out = binary.BigEndian.AppendUint16(out, 0) // format 0
	out = binary.BigEndian.AppendUint16(out, 1) // one track
	out = binary.BigEndian.AppendUint16(out, ticksPerQuarter)
	out = append(out, 'M', 'T', 'r', 'k')
	out = binary.BigEndian.AppendUint32(out, uint32(len(track)))
	out = append(out, track...)
	return out
}

// encodeVarLen encodes a MIDI variable-length quantity, most significant
// septet first with the continuation bit set on all but the last byte.
func encodeVarLen(v uint32) []byte {
	buf := []byte{byte(v & 0x7F)}
	v >>= 7
	for v > 0 {
		buf = append([]byte{byte(v&0x7F) | 0x80}, buf...)
		v >>= 7
	}
	return buf
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
