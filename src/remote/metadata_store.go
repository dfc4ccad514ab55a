package remote

import (
	"bytes"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-multierror"
	"github.com/zeebo/blake3"

	"github.com/hoist-build/hoist/src/core"
	"github.com/hoist-build/hoist/src/fs"
)

const hoistCacheDirName = "hoist"
const storeDirectoryName = "remote-metadata-store"

// expectedStoreVersion guards against decoding records written by an
// incompatible older version of the store layout.
const expectedStoreVersion = 1

// A MetadataStore persists remote file metadata between invocations, so the
// scheduler has records to put in front of the trust validator without asking
// the remote again.
type MetadataStore interface {
	StoreMetadata(artifact *core.Artifact, md *FileMetadata) error
	RetrieveMetadata(artifact *core.Artifact) (*FileMetadata, error)
}

type directoryMetadataStore struct {
	instance  string
	directory string
	clock     core.Clock
}

// a storedRecord is the on-disk form of a metadata record.
type storedRecord struct {
	Version  int
	Metadata FileMetadata
}

// NewDirMetadataStore creates a MetadataStore writing under the user's cache
// directory. It sweeps expired records in the background on creation.
func NewDirMetadataStore(clock core.Clock, instance string) MetadataStore {
	userCacheDir, err := os.UserCacheDir()
	if err != nil {
		log.Fatalf("failed to find user cache dir for metadata store: %v", err)
	}
	store := newDirMetadataStore(clock, instance, filepath.Join(userCacheDir, hoistCacheDirName, storeDirectoryName))
	go store.clean()
	return store
}

func newDirMetadataStore(clock core.Clock, instance, directory string) *directoryMetadataStore {
	if err := os.MkdirAll(directory, fs.DirPermissions); err != nil {
		log.Fatalf("failed to create metadata store directory: %v", err)
	}
	return &directoryMetadataStore{
		instance:  instance,
		directory: directory,
		clock:     clock,
	}
}

func (d *directoryMetadataStore) StoreMetadata(artifact *core.Artifact, md *FileMetadata) error {
	key := storeKey(artifact)
	dir := filepath.Join(d.directory, d.instance, key[:2])
	if err := os.MkdirAll(dir, fs.DirPermissions); err != nil {
		return fmt.Errorf("failed to create metadata store directory: %w", err)
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&storedRecord{Version: expectedStoreVersion, Metadata: *md}); err != nil {
		return fmt.Errorf("failed to encode metadata record: %w", err)
	}
	return fs.WriteFile(&buf, filepath.Join(dir, key), 0644)
}

func (d *directoryMetadataStore) RetrieveMetadata(artifact *core.Artifact) (*FileMetadata, error) {
	key := storeKey(artifact)
	md, err := loadRecord(filepath.Join(d.directory, d.instance, key[:2], key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	// Records written by an incompatible store layout are the same as no record.
	if md.Version != expectedStoreVersion {
		return nil, nil
	}
	if !md.Metadata.Alive(d.clock.Now()) {
		return nil, nil
	}
	return &md.Metadata, nil
}

// clean deletes any record that has expired.
func (d *directoryMetadataStore) clean() {
	var merr *multierror.Error
	var reclaimed uint64
	_ = fs.Walk(d.directory, func(name string, isDir bool) error {
		if isDir {
			return nil
		}
		record, err := loadRecord(name)
		if err != nil {
			// A bad record shouldn't stop the sweep.
			merr = multierror.Append(merr, err)
			return nil
		}
		if record.Version != expectedStoreVersion || !record.Metadata.Alive(d.clock.Now()) {
			if info, err := os.Lstat(name); err == nil {
				reclaimed += uint64(info.Size())
			}
			if err := os.Remove(name); err != nil {
				merr = multierror.Append(merr, err)
			}
		}
		return nil
	})
	if err := merr.ErrorOrNil(); err != nil {
		log.Warning("Errors sweeping expired metadata records: %s", err)
	}
	if reclaimed > 0 {
		log.Debug("Metadata store sweep reclaimed %s", humanize.Bytes(reclaimed))
	}
}

func loadRecord(filename string) (*storedRecord, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	record := new(storedRecord)
	if err := gob.NewDecoder(file).Decode(record); err != nil {
		return nil, fmt.Errorf("failed to decode metadata record %s: %w", filename, err)
	}
	return record, nil
}

// storeKey derives the filename a record is kept under. Exec paths can contain
// separators and get arbitrarily long, so we hash them.
func storeKey(artifact *core.Artifact) string {
	sum := blake3.Sum256([]byte(artifact.ExecPath()))
	return hex.EncodeToString(sum[:])
}
