// Package keystore persists pairing state on removable storage: the link
// key ring shared with previously paired devices and the optional BDADDR
// override. Storage problems never stop the bridge; a broken or missing
// file degrades to an empty ring and the radio's burned-in address.
package keystore

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"github.com/openretro/bridge"
)

const (
	// NumKeys is the capacity of the link key ring.
	NumKeys = 16
	// KeySize is the length of a BR/EDR link key.
	KeySize = 16

	keysFile   = "linkkeys.bin"
	bdaddrFile = "bdaddr.bin"

	entrySize = 6 + KeySize
	fileSize  = 4 + NumKeys*entrySize
)

// ErrNotFound is returned by LoadKey when no key is stored for an address.
var ErrNotFound = errors.New("keystore: link key not found")

// LinkKey is one pairing key as delivered by a link key notification.
type LinkKey [KeySize]byte

type entry struct {
	addr bridge.Addr
	key  LinkKey
}

// Store is the 16-entry link key ring plus its backing file. The ring
// keeps the most recent pairings; the write index wraps so a 17th device
// evicts the oldest entry.
type Store struct {
	log bridge.Logger
	dir string

	mu    sync.Mutex
	index uint32
	keys  [NumKeys]entry
}

// Open loads the link key ring from dir. Load failures are logged and
// yield an empty ring; Open never fails.
func Open(dir string, log bridge.Logger) *Store {
	s := &Store{
		log: log.ChildLogger(map[string]interface{}{"pkg": "keystore"}),
		dir: dir,
	}
	s.load()
	return s
}

func (s *Store) load() {
	raw, err := os.ReadFile(filepath.Join(s.dir, keysFile))
	if err != nil {
		if os.IsNotExist(err) {
			s.log.Info("no link keys on storage, starting empty")
		} else {
			s.log.Warnf("link keys unreadable: %v", err)
		}
		return
	}
	if len(raw) < fileSize {
		s.log.Warnf("link keys file truncated (%d bytes), starting empty", len(raw))
		return
	}

	s.index = binary.LittleEndian.Uint32(raw[0:4]) % NumKeys
	for i := 0; i < NumKeys; i++ {
		off := 4 + i*entrySize
		s.keys[i].addr = bridge.AddrFromBytes(raw[off : off+6])
		copy(s.keys[i].key[:], raw[off+6:off+entrySize])
	}
}

// save writes the whole ring through a temp file so a power cut mid-write
// cannot truncate the previous state.
func (s *Store) save() error {
	raw := make([]byte, fileSize)
	binary.LittleEndian.PutUint32(raw[0:4], s.index)
	for i := 0; i < NumKeys; i++ {
		off := 4 + i*entrySize
		copy(raw[off:], s.keys[i].addr[:])
		copy(raw[off+6:], s.keys[i].key[:])
	}

	path := filepath.Join(s.dir, keysFile)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0644); err != nil {
		return errors.Wrap(err, "write link keys")
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.Wrap(err, "rename link keys")
	}
	return nil
}

// LoadKey returns the stored link key for a device address, or ErrNotFound.
func (s *Store) LoadKey(addr bridge.Addr) (LinkKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.keys {
		if s.keys[i].addr == addr && !addr.IsZero() {
			return s.keys[i].key, nil
		}
	}
	return LinkKey{}, ErrNotFound
}

// StoreKey records a freshly notified link key. A known address is updated
// in place; a new one takes the current ring slot and advances the write
// index. The ring is persisted immediately; persistence failures are
// logged, the in-memory ring stays updated.
func (s *Store) StoreKey(addr bridge.Addr, key LinkKey) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot := s.index
	found := false
	for i := range s.keys {
		if s.keys[i].addr == addr {
			slot = uint32(i)
			found = true
			break
		}
	}

	s.keys[slot] = entry{addr: addr, key: key}
	if !found {
		s.index = (s.index + 1) % NumKeys
	}

	if err := s.save(); err != nil {
		s.log.Warnf("link key for %s not persisted: %v", addr, err)
	}
}

// BDAddr reads the address override file. ok is false when no usable
// override exists and the radio's own address should be kept.
func (s *Store) BDAddr() (addr bridge.Addr, ok bool) {
	raw, err := os.ReadFile(filepath.Join(s.dir, bdaddrFile))
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warnf("bdaddr file unreadable: %v", err)
		}
		return addr, false
	}
	if len(raw) < 6 {
		s.log.Warnf("bdaddr file truncated (%d bytes)", len(raw))
		return addr, false
	}
	return bridge.AddrFromBytes(raw[:6]), true
}

// BaseMAC derives the radio base MAC from a desired BDADDR. The radio
// allocates addresses upward from its base, so programming BDADDR-2 makes
// the advertised address come out as the file's value.
func BaseMAC(addr bridge.Addr) bridge.Addr {
	addr[5] -= 2
	return addr
}
