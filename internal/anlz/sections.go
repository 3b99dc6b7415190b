package anlz

import (
	"encoding/binary"
	"unicode/utf16"

	"github.com/crateport/crateport/internal/core"
)

// buildPPTH encodes the audio filename section (spec.md §4.5 "PPTH path
// section: u32 length, UTF-16BE bytes of the audio filename with a
// trailing NUL").
func buildPPTH(filename string) []byte {
	units := utf16.Encode([]rune(filename))
	body := make([]byte, (len(units)+1)*2)
	for i, u := range units {
		binary.BigEndian.PutUint16(body[i*2:], u)
	}
	// Trailing NUL: body's last two bytes are already zero.

	payload := make([]byte, 4+len(body))
	binary.BigEndian.PutUint32(payload[0:4], uint32(len(body)))
	copy(payload[4:], body)
	return emitSection("PPTH", payload)
}

const maxGridEntries = 1500

// beatGridEntry is one (beat-number, tempo, position) triple.
type beatGridEntry struct {
	beatNumber uint16
	tempoX100  uint16
	positionMS uint32
}

// buildBeatGrid generates the PQTZ entry sequence (spec.md §4.5 "PQTZ
// beat grid" and §8 scenario S4). ok is false when the track is too
// short for even one beat step (spec.md §4.5 "TrackTooShortForGrid"),
// in which case the caller must omit the section entirely.
func buildBeatGrid(bpm float64, anchorMS, durationMS int64) (entries []beatGridEntry, ok bool) {
	if bpm <= 0 {
		return nil, false
	}
	stepMS := 60000.0 / bpm
	if float64(durationMS) < stepMS {
		return nil, false
	}

	tempo := uint16(bpm*100 + 0.5)
	count := 1 + int((float64(durationMS)-float64(anchorMS))/stepMS)
	if count > maxGridEntries {
		count = maxGridEntries
	}

	entries = make([]beatGridEntry, 0, count)
	for i := 0; i < count; i++ {
		pos := anchorMS + int64(float64(i)*stepMS)
		if pos > durationMS {
			break
		}
		entries = append(entries, beatGridEntry{
			beatNumber: uint16(i%4) + 1,
			tempoX100:  tempo,
			positionMS: uint32(pos),
		})
	}
	return entries, true
}

func buildPQTZ(entries []beatGridEntry) []byte {
	payload := make([]byte, 8+len(entries)*8)
	binary.BigEndian.PutUint32(payload[0:4], 1)
	binary.BigEndian.PutUint32(payload[4:8], 0x00800000)

	off := 8
	for _, e := range entries {
		binary.BigEndian.PutUint16(payload[off:off+2], e.beatNumber)
		binary.BigEndian.PutUint16(payload[off+2:off+4], e.tempoX100)
		binary.BigEndian.PutUint32(payload[off+4:off+8], e.positionMS)
		off += 8
	}
	return emitSection("PQTZ", payload)
}

const previewLen = 400

// buildPWAV builds the fixed-size preview-waveform section. Real
// amplitude/spectral-colour extraction would require decoding and
// analysing the source audio, which spec.md's Non-goals explicitly
// exclude; the payload is therefore a deterministic, silent placeholder
// (every byte 0x00) rather than a fabricated waveform.
func buildPWAV() []byte {
	payload := make([]byte, 4+previewLen)
	binary.BigEndian.PutUint32(payload[0:4], 0x00100000)
	return emitSection("PWAV", payload)
}

// colourWaveformLen matches previewLen but with three bytes per sample
// (spec.md §4.5 "colour-waveform section"; tag PWV3 per the wider
// Pioneer format family).
const colourWaveformLen = previewLen * 3

func buildPWV3() []byte {
	payload := make([]byte, 4+colourWaveformLen)
	binary.BigEndian.PutUint32(payload[0:4], 0x00100000)
	return emitSection("PWV3", payload)
}

// cuePointRecordLen is PCPT's fixed size (spec.md §4.5 "a PCPT sub-record
// of fixed 38 bytes").
const cuePointRecordLen = 38

func buildPCOB(kind uint32, cues []core.CuePoint, extended bool) ([]byte, bool) {
	if len(cues) == 0 {
		return nil, false
	}

	records := make([][]byte, len(cues))
	payloadLen := 10
	for i, c := range cues {
		records[i] = encodeCuePoint(c, i, extended)
		payloadLen += len(records[i])
	}

	payload := make([]byte, 10, payloadLen)
	binary.BigEndian.PutUint32(payload[0:4], kind)
	binary.BigEndian.PutUint32(payload[4:8], 0x00010000)
	binary.BigEndian.PutUint16(payload[8:10], uint16(len(cues)))
	for _, rec := range records {
		payload = append(payload, rec...)
	}

	return emitSection("PCOB", payload), true
}

// encodeCuePoint builds one PCPT (or, when extended, PCP2) record.
// status is 4 only for an active loop, 0 otherwise — including for every
// non-loop hot cue — which preserves the source asymmetry spec.md §9
// flags as a deliberate quirk.
func encodeCuePoint(c core.CuePoint, order int, extended bool) []byte {
	base := make([]byte, cuePointRecordLen)

	slot := byte(0xFF)
	if c.IsHotCue() {
		slot = byte(c.HotCueSlot)
	}
	base[0] = slot

	status := byte(0)
	if c.IsLoop() {
		status = 4
	}
	base[1] = status

	binary.BigEndian.PutUint16(base[2:4], uint16(order))
	binary.BigEndian.PutUint16(base[4:6], uint16(order))

	cueType := uint16(1)
	loopEnd := uint32(0xFFFFFFFF)
	if c.IsLoop() {
		cueType = 2
		loopEnd = uint32(c.StartMS + c.LengthMS)
	}
	binary.BigEndian.PutUint16(base[6:8], cueType)
	binary.BigEndian.PutUint32(base[8:12], uint32(c.StartMS))
	binary.BigEndian.PutUint32(base[12:16], loopEnd)
	// base[16:38] reserved, left zero.

	if !extended {
		return base
	}

	units := utf16.Encode([]rune(c.Name))
	comment := make([]byte, len(units)*2)
	for i, u := range units {
		binary.BigEndian.PutUint16(comment[i*2:], u)
	}

	out := make([]byte, cuePointRecordLen+2+len(comment)+4)
	copy(out, base)
	binary.BigEndian.PutUint16(out[cuePointRecordLen:cuePointRecordLen+2], uint16(len(comment)))
	copy(out[cuePointRecordLen+2:], comment)
	rgbOff := cuePointRecordLen + 2 + len(comment)
	if c.HasColor {
		out[rgbOff] = c.Color[0]
		out[rgbOff+1] = c.Color[1]
		out[rgbOff+2] = c.Color[2]
	}
	return out
}

// structureEntryLen is one PSSI phrase entry (spec.md §4.5 "PSSI musical
// structure: optional, 24-byte entries").
const structureEntryLen = 24

// buildPSSI emits the musical-structure section. Real phrase detection
// is audio analysis and out of scope (spec.md Non-goals); the section is
// always written with zero entries so tier-c output still carries a
// well-formed, empty PSSI container.
func buildPSSI() []byte {
	return emitSection("PSSI", []byte{})
}
