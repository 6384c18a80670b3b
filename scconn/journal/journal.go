package journal

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/sjy-dv/scconn/scconn/netcore"
	"github.com/sjy-dv/scconn/scconn/pkg/log"
)

// Lifecycle events recorded by the factory and pool.
const (
	EventRebind      = "rebind"
	EventConnOpen    = "conn-open"
	EventRelaxSeeded = "relax-seeded"
)

const fileLockName = "JOURNAL.LOCK"

var ErrJournalLocked = fmt.Errorf("journal:locked by another process")

var _ netcore.Recorder = &Journal{}

// Journal is an append-only record of connection-lifecycle events, meant
// for post-incident review of maintenance windows. The file may be shared
// between processes on one host, so the directory is guarded with a file
// lock taken at open.
type Journal struct {
	mu       sync.Mutex
	file     *os.File
	fileLock *flock.Flock
}

func Open(dirPath string) (*Journal, error) {
	if err := os.MkdirAll(dirPath, os.ModePerm); err != nil {
		return nil, fmt.Errorf("journal:%w", err)
	}
	fileLock := flock.New(filepath.Join(dirPath, fileLockName))
	hold, err := fileLock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("journal:%w", err)
	}
	if !hold {
		return nil, ErrJournalLocked
	}
	file, err := os.OpenFile(filepath.Join(dirPath, "events.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		_ = fileLock.Unlock()
		return nil, fmt.Errorf("journal:%w", err)
	}
	return &Journal{
		file:     file,
		fileLock: fileLock,
	}, nil
}

// Record appends one event line. Append failures are logged, not
// returned: the journal must never take a connection down with it.
func (j *Journal) Record(event string, addr netcore.Address) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.file == nil {
		return
	}
	line := fmt.Sprintf("%s %s %s\n", time.Now().UTC().Format(time.RFC3339Nano), event, addr)
	if _, err := j.file.WriteString(line); err != nil {
		log.Warnf("journal append failed:[%v]", err)
	}
}

func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.file == nil {
		return nil
	}
	err := j.file.Close()
	j.file = nil
	if lockErr := j.fileLock.Unlock(); err == nil {
		err = lockErr
	}
	return err
}
