package solver

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/san-kum/hitsim/internal/field"
)

// Precision selects the storage width of checkpoint payload data.
type Precision uint8

const (
	Float64 Precision = iota
	Float32
)

func ParsePrecision(s string) (Precision, error) {
	switch s {
	case "", "f64", "float64":
		return Float64, nil
	case "f32", "float32":
		return Float32, nil
	}
	return Float64, fmt.Errorf("solver: unknown precision %q", s)
}

const (
	checkpointMagic   = uint32(0x48495443) // "HITC"
	checkpointVersion = uint16(1)
)

type checkpointHeader struct {
	Magic     uint32
	Version   uint16
	Precision uint8
	_         uint8
	N         uint32
	Length    float64
	Time      float64
	Nu        float64
}

// CheckpointName returns the conventional file name for a saved flow state,
// encoding grid resolution and elapsed convective time.
func CheckpointName(n int, ctu float64) string {
	return fmt.Sprintf("flow_N%d_t%.2f.chk", n, ctu)
}

// SaveCheckpoint persists the solver state at path. Payload is the three
// velocity components in x, y, z order, little-endian, at the requested
// precision.
func SaveCheckpoint(path string, d *Decay, prec Precision) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	hdr := checkpointHeader{
		Magic:     checkpointMagic,
		Version:   checkpointVersion,
		Precision: uint8(prec),
		N:         uint32(d.f.N),
		Length:    d.f.L,
		Time:      d.time,
		Nu:        d.nu,
	}
	if err := binary.Write(w, binary.LittleEndian, hdr); err != nil {
		return err
	}

	for _, comp := range d.f.Components() {
		if err := writePayload(w, comp, prec); err != nil {
			return err
		}
	}
	return w.Flush()
}

// LoadCheckpoint restores a solver from a checkpoint written by
// SaveCheckpoint.
func LoadCheckpoint(path string) (*Decay, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := bufio.NewReader(file)
	var hdr checkpointHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadCheckpoint, err)
	}
	if hdr.Magic != checkpointMagic {
		return nil, fmt.Errorf("%w: bad magic %#x", ErrBadCheckpoint, hdr.Magic)
	}
	if hdr.Version != checkpointVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrBadCheckpoint, hdr.Version)
	}

	f, err := field.New(int(hdr.N), hdr.Length)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadCheckpoint, err)
	}

	prec := Precision(hdr.Precision)
	for _, comp := range f.Components() {
		if err := readPayload(r, comp, prec); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadCheckpoint, err)
		}
	}

	return NewDecayAt(f, hdr.Nu, hdr.Time), nil
}

func writePayload(w *bufio.Writer, data []float64, prec Precision) error {
	buf := make([]byte, 8)
	for _, v := range data {
		switch prec {
		case Float32:
			binary.LittleEndian.PutUint32(buf[:4], math.Float32bits(float32(v)))
			if _, err := w.Write(buf[:4]); err != nil {
				return err
			}
		default:
			binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
			if _, err := w.Write(buf); err != nil {
				return err
			}
		}
	}
	return nil
}

func readPayload(r *bufio.Reader, data []float64, prec Precision) error {
	width := 8
	if prec == Float32 {
		width = 4
	}
	buf := make([]byte, width)
	for i := range data {
		if _, err := io.ReadFull(r, buf); err != nil {
			return err
		}
		if prec == Float32 {
			data[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(buf)))
		} else {
			data[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf))
		}
	}
	return nil
}
