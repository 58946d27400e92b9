package validate

import (
	"errors"
	"fmt"

	"freqtable/band"
	"freqtable/serialize"
)

var ErrUnaddressable = errors.New("range not addressable by high byte")

// Zero page used by the lookup routine.
const (
	ZPFreqLo = 0xFB
	ZPFreqHi = 0xFC
	zpIdxLo  = 0xFD
	zpIdxHi  = 0xFE
)

const (
	RoutineAddr = 0x1000
	TableAddr   = 0xC000
)

const (
	opLDAzp   = 0xA5
	opLDAabsX = 0xBD
	opLDXzp   = 0xA6
	opSTAzp   = 0x85
	opCMPimm  = 0xC9
	opSBCimm  = 0xE9
	opSEC     = 0x38
	opLSRzp   = 0x46
	opRORzp   = 0x66
	opBCC     = 0x90
	opBCS     = 0xB0
	opRTS     = 0x60
)

// indexBody turns the frequency into (freq-base)>>shift and returns the
// table byte at that index in A.
func indexBody(r band.Range, table uint16) []byte {
	code := []byte{
		opLDAzp, ZPFreqLo,
		opSTAzp, zpIdxLo,
		opLDAzp, ZPFreqHi,
		opSEC,
		opSBCimm, byte(r.Base >> 8),
		opSTAzp, zpIdxHi,
	}
	for i := uint(0); i < r.Shift; i++ {
		code = append(code, opLSRzp, zpIdxHi, opRORzp, zpIdxLo)
	}
	return append(code,
		opLDXzp, zpIdxLo,
		opLDAabsX, byte(table), byte(table>>8),
		opRTS,
	)
}

// EmitLookup assembles the player-side lookup for s: frequency in
// ZPFreqLo/ZPFreqHi, bar returned in A. Range edges must fall on page
// boundaries because the routine only compares high bytes.
func EmitLookup(s band.Scheme, tableAddr uint16) ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	for rng, r := range s.Ranges {
		if r.Base&0xFF != 0 || (rng != band.Hi && r.End()&0xFF != 0) {
			return nil, fmt.Errorf("%w: %s range $%04X..$%04X", ErrUnaddressable, band.RangeName(rng), r.Base, r.End())
		}
	}

	var code []byte
	for rng := band.Lo; rng < band.Hi; rng++ {
		r := s.Ranges[rng]
		body := indexBody(r, tableAddr+uint16(rng*band.TableSize))

		var guard []byte
		var branches []int
		if r.Base > 0 {
			guard = append(guard, opLDAzp, ZPFreqHi, opCMPimm, byte(r.Base>>8), opBCC, 0)
			branches = append(branches, len(guard)-1)
		}
		if r.End() < 0x10000 {
			guard = append(guard, opLDAzp, ZPFreqHi, opCMPimm, byte(r.End()>>8), opBCS, 0)
			branches = append(branches, len(guard)-1)
		}
		end := len(guard) + len(body)
		for _, at := range branches {
			guard[at] = byte(end - (at + 1))
		}

		code = append(code, guard...)
		code = append(code, body...)
	}
	code = append(code, indexBody(s.Ranges[band.Hi], tableAddr+uint16(band.Hi*band.TableSize))...)
	return code, nil
}

type Result struct {
	Passed        bool
	Checked       int
	FirstMismatch int
	Want, Got     byte
}

// Consumer runs the emitted routine on every 16-bit frequency and compares
// it with band.Lookup over the same blob.
func Consumer(blob []byte, s band.Scheme) (Result, error) {
	result := Result{FirstMismatch: -1}
	if len(blob) != serialize.OutputSize {
		return result, fmt.Errorf("%w: %d bytes, want %d", serialize.ErrSize, len(blob), serialize.OutputSize)
	}
	code, err := EmitLookup(s, TableAddr)
	if err != nil {
		return result, err
	}
	return compareRoutine(code, blob, s)
}

func compareRoutine(code, blob []byte, s band.Scheme) (Result, error) {
	result := Result{FirstMismatch: -1}
	cpu := NewCPU()
	cpu.Load(RoutineAddr, code)
	cpu.Load(TableAddr, blob)

	for f := 0; f <= 0xFFFF; f++ {
		cpu.Memory[ZPFreqLo] = byte(f)
		cpu.Memory[ZPFreqHi] = byte(f >> 8)
		if err := cpu.Call(RoutineAddr); err != nil {
			return result, fmt.Errorf("freq $%04X: %w", f, err)
		}
		result.Checked++

		want := band.Lookup(blob, s, uint16(f))
		if cpu.A != want {
			result.FirstMismatch = f
			result.Want = want
			result.Got = cpu.A
			return result, nil
		}
	}
	result.Passed = true
	return result, nil
}
