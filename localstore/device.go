package localstore

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const deviceIDFile = "device-id"

// DeviceID returns this device's persistent pseudo-identity, minting one on
// first use. The id is never centrally issued or validated; it only has to be
// unlikely to collide with another device at the same event.
func (s *Store) DeviceID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deviceIDLocked()
}

func (s *Store) deviceIDLocked() string {
	if s.deviceID != "" {
		return s.deviceID
	}

	path := filepath.Join(s.dir, deviceIDFile)
	if data, err := os.ReadFile(path); err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			s.deviceID = id
			return s.deviceID
		}
	}

	s.deviceID = "device-" + uuid.NewString()
	if err := os.WriteFile(path, []byte(s.deviceID), 0o644); err != nil {
		// Still usable for this process; the next start mints a new identity.
		log.Printf("localstore: persist device id: %v", err)
	}
	return s.deviceID
}
