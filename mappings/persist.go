package mappings

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nullstyle/go-xdr/xdr3"
	"github.com/spacemeshos/sha256-simd"

	"github.com/edombrower/hifi/shared"
)

const checksumSize = sha256.Size

var (
	ErrSnapshotNotExist = errors.New("snapshot file is missing")
	ErrSnapshotCorrupt  = errors.New("snapshot checksum mismatch")
)

func GetMappingsDir(datadir string) string {
	return filepath.Join(datadir, "mappings")
}

func GetSnapshotFilename(datadir string, label string) string {
	// Use a special name for the empty label, which otherwise
	// will result in empty filename.
	if label == "" {
		label = "0"
	}

	return filepath.Join(GetMappingsDir(datadir), label+".snap")
}

// Persist writes a snapshot to disk as a checksum-prefixed XDR blob.
func Persist(datadir string, snapshot *Snapshot) error {
	return writeXDRFile(datadir, GetSnapshotFilename(datadir, snapshot.Label), snapshot)
}

// Fetch reads back a persisted snapshot, verifying its checksum.
func Fetch(datadir string, label string) (*Snapshot, error) {
	snapshot := &Snapshot{}
	err := readXDRFile(GetSnapshotFilename(datadir, label), snapshot)
	if err != nil {
		return nil, err
	}

	return snapshot, nil
}

func writeXDRFile(datadir string, filename string, val interface{}) error {
	var w bytes.Buffer
	_, err := xdr.Marshal(&w, val)
	if err != nil {
		return fmt.Errorf("serialization failure: %v", err)
	}

	err = os.MkdirAll(GetMappingsDir(datadir), shared.OwnerReadWriteExec)
	if err != nil {
		return fmt.Errorf("dir creation failure: %v", err)
	}

	digest := sha256.Sum256(w.Bytes())
	blob := append(digest[:], w.Bytes()...)

	err = os.WriteFile(filename, blob, shared.OwnerReadWrite)
	if err != nil {
		return fmt.Errorf("write to disk failure: %v", err)
	}

	return nil
}

func readXDRFile(filename string, val interface{}) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrSnapshotNotExist
		}

		return fmt.Errorf("read file failure: %v", err)
	}

	if len(data) < checksumSize {
		return ErrSnapshotCorrupt
	}
	digest := sha256.Sum256(data[checksumSize:])
	if !bytes.Equal(digest[:], data[:checksumSize]) {
		return ErrSnapshotCorrupt
	}

	_, err = xdr.Unmarshal(bytes.NewReader(data[checksumSize:]), val)
	return err
}
