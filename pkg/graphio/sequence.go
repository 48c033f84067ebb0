package graphio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"

	"github.com/gilchrisn/jtree-partition/pkg/jerr"
	"github.com/gilchrisn/jtree-partition/pkg/types"
)

// ReadBinarySequence reads a sequence file of the form u64 size followed by
// size little-endian u32 vertex ids, the format
// original_source/lib/sequence.h's writeBinarySequence produces.
func ReadBinarySequence(r io.Reader) ([]types.Vid, error) {
	var size uint64
	if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
		return nil, fmt.Errorf("graphio: reading sequence length: %w", jerr.Io)
	}
	seq := make([]types.Vid, size)
	if err := binary.Read(r, binary.LittleEndian, seq); err != nil {
		return nil, fmt.Errorf("graphio: reading sequence body: %w", jerr.Io)
	}
	return seq, nil
}

// WriteBinarySequence writes seq in the u64-length-prefixed binary format.
func WriteBinarySequence(w io.Writer, seq []types.Vid) error {
	if err := binary.Write(w, binary.LittleEndian, uint64(len(seq))); err != nil {
		return fmt.Errorf("graphio: writing sequence length: %w", jerr.Io)
	}
	if err := binary.Write(w, binary.LittleEndian, seq); err != nil {
		return fmt.Errorf("graphio: writing sequence body: %w", jerr.Io)
	}
	return nil
}

// ReadTextSequence reads one vertex id per line.
func ReadTextSequence(r io.Reader) ([]types.Vid, error) {
	sc := bufio.NewScanner(r)
	var seq []types.Vid
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		v, err := strconv.ParseUint(line, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("graphio: bad sequence entry %q: %w", line, jerr.Usage)
		}
		seq = append(seq, types.Vid(v))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("graphio: scanning sequence: %w", jerr.Io)
	}
	return seq, nil
}

// WriteTextSequence writes one vertex id per line.
func WriteTextSequence(w io.Writer, seq []types.Vid) error {
	bw := bufio.NewWriter(w)
	for _, v := range seq {
		if _, err := fmt.Fprintln(bw, v); err != nil {
			return fmt.Errorf("graphio: writing sequence: %w", jerr.Io)
		}
	}
	return bw.Flush()
}
