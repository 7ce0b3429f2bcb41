package ir

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"ophelia/internal/types"
)

// formatVersion is bumped whenever the encoded layout changes.
const formatVersion uint8 = 1

type wireProgram struct {
	Version uint8
	Types   types.Table
	Globals []*Global
	Funcs   []*Func
}

// Encode writes p as msgpack together with its type table.
func Encode(w io.Writer, p *Program) error {
	wp := wireProgram{
		Version: formatVersion,
		Types:   p.Types.Export(),
		Globals: p.Globals,
		Funcs:   p.Funcs,
	}
	if err := msgpack.NewEncoder(w).Encode(&wp); err != nil {
		return fmt.Errorf("ir: encode: %w", err)
	}
	return nil
}

// Decode reads a program written by Encode.
func Decode(r io.Reader) (*Program, error) {
	var wp wireProgram
	if err := msgpack.NewDecoder(r).Decode(&wp); err != nil {
		return nil, fmt.Errorf("ir: decode: %w", err)
	}
	if wp.Version != formatVersion {
		return nil, fmt.Errorf("ir: unsupported format version %d", wp.Version)
	}
	typesIn, err := types.Import(wp.Types)
	if err != nil {
		return nil, fmt.Errorf("ir: decode: %w", err)
	}
	return &Program{Types: typesIn, Globals: wp.Globals, Funcs: wp.Funcs}, nil
}
