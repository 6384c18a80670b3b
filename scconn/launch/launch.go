package launch

import (
	"os"
	"strconv"
	"time"

	"github.com/sjy-dv/scconn/scconn/journal"
	"github.com/sjy-dv/scconn/scconn/netcore"
	"github.com/sjy-dv/scconn/scconn/pkg/log"
)

const DefaultAddr = "127.0.0.1:6727"

// LoadEnv builds client options from environment variables. Every value
// that fails to parse falls back to its default with a notice, the way a
// long-running client should: misconfiguration degrades, it does not
// abort.
//
// A journal opened through SCCONN_JOURNAL lives for the rest of the
// process; its file lock is released at exit. Callers that need to close
// the journal earlier should open it themselves with journal.Open and
// pass it via WithJournal.
//
//	SCCONN_ADDR                        host:port of the initial target
//	SCCONN_READ_TIMEOUT_MS             base socket timeout
//	SCCONN_WRITE_TIMEOUT_MS            write timeout
//	SCCONN_RELAXED_TIMEOUT_MS          relaxed timeout, regular commands
//	SCCONN_RELAXED_BLOCKING_TIMEOUT_MS relaxed timeout, blocking commands
//	SCCONN_PROACTIVE_REBIND            "1" to enable
//	SCCONN_POOL_INIT / SCCONN_POOL_MAX pool sizing
//	SCCONN_JOURNAL                     journal directory, empty disables
//	SCCONN_LOG_LEVEL                   debug|info|warn|error
func LoadEnv() []netcore.Option {
	if lvl := os.Getenv("SCCONN_LOG_LEVEL"); lvl != "" {
		log.SetLevel(lvl)
	}

	opts := make([]netcore.Option, 0, 8)

	addrEnv := os.Getenv("SCCONN_ADDR")
	if addrEnv == "" {
		addrEnv = DefaultAddr
	}
	addr, err := netcore.ParseAddress(addrEnv)
	if err != nil {
		log.Infof("bad SCCONN_ADDR %q, using %s", addrEnv, DefaultAddr)
		addr, _ = netcore.ParseAddress(DefaultAddr)
	}
	opts = append(opts, netcore.WithAddr(addr))
	log.Infof("scconn target %s", addr)

	if d, ok := envMillis("SCCONN_READ_TIMEOUT_MS"); ok {
		opts = append(opts, netcore.WithReadTimeout(d))
	}
	if d, ok := envMillis("SCCONN_WRITE_TIMEOUT_MS"); ok {
		opts = append(opts, netcore.WithWriteTimeout(d))
	}

	relaxed, hasRelaxed := envMillis("SCCONN_RELAXED_TIMEOUT_MS")
	relaxedBlocking, hasBlocking := envMillis("SCCONN_RELAXED_BLOCKING_TIMEOUT_MS")
	if hasRelaxed || hasBlocking {
		opts = append(opts, netcore.WithRelaxedTimeout(relaxed, relaxedBlocking))
	}

	if os.Getenv("SCCONN_PROACTIVE_REBIND") == "1" {
		opts = append(opts, netcore.WithProactiveRebind(true))
		log.Info("proactive rebind enabled")
	}

	poolInit := envUint("SCCONN_POOL_INIT", 0)
	poolMax := envUint("SCCONN_POOL_MAX", 16)
	opts = append(opts, netcore.WithPoolSize(poolInit, poolMax))

	if dir := os.Getenv("SCCONN_JOURNAL"); dir != "" {
		j, err := journal.Open(dir)
		if err != nil {
			log.Warnf("journal disabled:[%v]", err)
		} else {
			opts = append(opts, netcore.WithJournal(j))
			log.Infof("journal mounted %s", dir)
		}
	}

	return opts
}

func envMillis(key string) (time.Duration, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || ms < 0 {
		log.Infof("bad %s %q, keeping default", key, raw)
		return 0, false
	}
	return time.Duration(ms) * time.Millisecond, true
}

func envUint(key string, def uint32) uint32 {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		log.Infof("bad %s %q, keeping default %d", key, raw, def)
		return def
	}
	return uint32(n)
}
