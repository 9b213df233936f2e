// selftest.go runs the KEM round trip against itself. SelfTest is the
// single-shot check from the public API; HealthCheck sweeps every supported
// rank and both expander modes, timing each operation into a metrics
// collector and reporting through log/slog the way long-running embedders
// expect.
package lwr

import (
	"crypto/subtle"
	"log/slog"
	"time"

	"github.com/eth2030/lwrkem/metrics"
)

// SelfTest derives a key pair and a ciphertext from the given entropy,
// decapsulates, and compares the two shared keys in constant time. It
// returns ErrSelfTest on mismatch.
//
// For honestly generated inputs reconciliation does not fail at any
// supported rank: the two agreement values differ by less than 2K at every
// position (under 12 at K = 6), and every position selected by the
// safe-zone mask lies at least 21 from a quadrant boundary.
func SelfTest(p Params, entropy []byte) error {
	pk, sk, err := KeyGen(p, entropy)
	if err != nil {
		return err
	}
	defer sk.Zeroize()

	ct, k1, err := Encapsulate(pk, entropy)
	if err != nil {
		return err
	}
	defer ZeroizeShared(k1)

	k2, err := Decapsulate(sk, ct)
	if err != nil {
		return err
	}
	defer ZeroizeShared(k2)

	if subtle.ConstantTimeCompare(k1, k2) != 1 {
		return ErrSelfTest
	}
	return nil
}

// timedRoundTrip runs keygen, encapsulation and decapsulation under p,
// records one tagged sample per operation into col, and returns
// ErrSelfTest when the two shared keys disagree.
func timedRoundTrip(p Params, entropy []byte, col *metrics.Collector) error {
	record := func(op string, start time.Time, ok bool) {
		col.RecordOp(metrics.Sample{
			Op:     op,
			Rank:   p.K,
			Mode:   int(p.Mode),
			Millis: float64(time.Since(start)) / float64(time.Millisecond),
			OK:     ok,
		})
	}

	start := time.Now()
	pk, sk, err := KeyGen(p, entropy)
	if err != nil {
		record(metrics.OpKeyGen, start, false)
		return err
	}
	record(metrics.OpKeyGen, start, true)
	defer sk.Zeroize()

	start = time.Now()
	ct, k1, err := Encapsulate(pk, entropy)
	if err != nil {
		record(metrics.OpEncaps, start, false)
		return err
	}
	record(metrics.OpEncaps, start, true)
	defer ZeroizeShared(k1)

	start = time.Now()
	k2, err := Decapsulate(sk, ct)
	if err != nil {
		record(metrics.OpDecaps, start, false)
		return err
	}
	defer ZeroizeShared(k2)

	ok := subtle.ConstantTimeCompare(k1, k2) == 1
	record(metrics.OpDecaps, start, ok)
	if !ok {
		return ErrSelfTest
	}
	return nil
}

// HealthCheck runs a timed round trip for every supported rank under both
// expander modes, records per-operation samples into col, and logs the
// outcome with duration percentiles. It returns the first failure, after
// completing the full sweep.
func HealthCheck(entropy []byte, lg *slog.Logger, col *metrics.Collector) error {
	if lg == nil {
		lg = slog.Default()
	}
	if col == nil {
		col = metrics.NewCollector(0)
	}
	lg = lg.With("module", "lwr")

	var firstErr error
	for k := MinK; k <= MaxK; k++ {
		for _, mode := range []ExpandMode{ExpandRow, ExpandElement} {
			p := Params{K: k, Mode: mode}
			if err := timedRoundTrip(p, entropy, col); err != nil {
				lg.Error("self test failed", "k", k, "mode", int(mode), "err", err)
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			lg.Debug("self test passed", "k", k, "mode", int(mode))
		}
	}
	col.SetHealthy(firstErr == nil)

	lg.Info("health check complete",
		"passes", col.Passes(),
		"failures", col.Failures(),
		"keygen_p50_ms", col.Percentile(metrics.OpKeyGen, 50),
		"keygen_p95_ms", col.Percentile(metrics.OpKeyGen, 95),
		"keygen_p99_ms", col.Percentile(metrics.OpKeyGen, 99),
		"encaps_p95_ms", col.Percentile(metrics.OpEncaps, 95),
		"decaps_p95_ms", col.Percentile(metrics.OpDecaps, 95),
	)
	return firstErr
}
