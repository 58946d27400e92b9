package serialize

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"freqtable/band"
)

var ErrSize = errors.New("unexpected table size")

func Serialize(tables band.Tables) []byte {
	output := make([]byte, OutputSize)
	copy(output[LoOffset:], tables[band.Lo][:])
	copy(output[MidOffset:], tables[band.Mid][:])
	copy(output[HiOffset:], tables[band.Hi][:])
	return output
}

func Split(data []byte) (band.Tables, error) {
	var tables band.Tables
	if len(data) != OutputSize {
		return tables, fmt.Errorf("%w: %d bytes, want %d", ErrSize, len(data), OutputSize)
	}
	copy(tables[band.Lo][:], data[LoOffset:MidOffset])
	copy(tables[band.Mid][:], data[MidOffset:HiOffset])
	copy(tables[band.Hi][:], data[HiOffset:OutputSize])
	return tables, nil
}

// WriteFile replaces path in one rename so readers never see a short table.
func WriteFile(path string, data []byte) (err error) {
	if len(data) != OutputSize {
		return fmt.Errorf("%w: %d bytes, want %d", ErrSize, len(data), OutputSize)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", path, err)
	}
	if err = tmp.Chmod(0644); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
