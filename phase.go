package bench

import (
	"fmt"
	"sync"

	"github.com/oltpgo/tpccdrive/generator"
)

// PhaseMode is the rate-control discipline a Phase runs under.
type PhaseMode uint8

const (
	ModeRateLimited PhaseMode = iota
	ModeUnlimitedRate
	ModeSerial
	ModeDisabled
)

// WeightedTxnType is one entry of a Phase's transaction mix: txn-type id
// paired with its relative weight in the mix.
type WeightedTxnType struct {
	TxnType string
	Weight  int
}

// PhaseConfig is the plain-data shape a Phase is built from; NewPhase
// validates it and wraps the result so a Phase, once constructed, carries
// no exported mutators (§9: ActiveTerminals is immutable for the Phase's
// lifetime, enforced by the type having no setter).
type PhaseConfig struct {
	ID              string
	Mix             []WeightedTxnType
	ActiveTerminals int
	Mode            PhaseMode
	RatePerSecond   float64
	Duration        int64 // nanoseconds; 0 = until externally advanced
	NoWait          bool
}

// Phase is an immutable description of one benchmark stage: a weighted
// transaction mix, an active-terminal count, a rate-control mode and a
// duration. Two stateful pieces live alongside the immutable config: the
// DiscreteGenerator used to pick a random txn type for rate-limited and
// unlimited-rate phases, and a serial cursor for ModeSerial phases. Both
// are internally synchronized so a Phase can be shared read-only across
// every Worker of a workload.
type Phase struct {
	id              string
	activeTerminals int
	mode            PhaseMode
	ratePerSecond   float64
	duration        int64
	noWait          bool

	mix  *generator.DiscreteGenerator
	txns []string // ordered distinct txn types, for the serial iterator

	serialMu  sync.Mutex
	serialIdx int
}

func NewPhase(cfg PhaseConfig) (*Phase, error) {
	if cfg.ActiveTerminals < 0 {
		return nil, fmt.Errorf("phase %s: activeTerminals must be >= 0, got %d", cfg.ID, cfg.ActiveTerminals)
	}
	if cfg.Mode != ModeDisabled && len(cfg.Mix) == 0 {
		return nil, fmt.Errorf("phase %s: non-disabled phase needs a non-empty transaction mix", cfg.ID)
	}

	mix := generator.NewDiscreteGenerator()
	txns := make([]string, 0, len(cfg.Mix))
	sumWeight := 0
	for _, w := range cfg.Mix {
		if w.Weight <= 0 {
			return nil, fmt.Errorf("phase %s: txn %s has non-positive weight %d", cfg.ID, w.TxnType, w.Weight)
		}
		mix.AddValue(float64(w.Weight), w.TxnType)
		txns = append(txns, w.TxnType)
		sumWeight += w.Weight
	}
	if cfg.Mode != ModeDisabled && sumWeight <= 0 {
		return nil, fmt.Errorf("phase %s: mix weights must sum to > 0", cfg.ID)
	}

	return &Phase{
		id:              cfg.ID,
		activeTerminals: cfg.ActiveTerminals,
		mode:            cfg.Mode,
		ratePerSecond:   cfg.RatePerSecond,
		duration:        cfg.Duration,
		noWait:          cfg.NoWait,
		mix:             mix,
		txns:            txns,
	}, nil
}

func (p *Phase) ID() string              { return p.id }
func (p *Phase) ActiveTerminals() int    { return p.activeTerminals }
func (p *Phase) Mode() PhaseMode         { return p.mode }
func (p *Phase) RatePerSecond() float64  { return p.ratePerSecond }
func (p *Phase) Duration() int64         { return p.duration }
func (p *Phase) NoWait() bool            { return p.noWait }
func (p *Phase) Disabled() bool          { return p.mode == ModeDisabled }
func (p *Phase) IsSerial() bool          { return p.mode == ModeSerial }
func (p *Phase) IsRateLimited() bool     { return p.mode == ModeRateLimited }

// ChooseTxnType picks a transaction type at random per the weighted mix.
// Used by rate-limited and unlimited-rate phases.
func (p *Phase) ChooseTxnType() string {
	return p.mix.NextString()
}

// NextSerialTxnType advances the serial cursor and returns the txn type at
// the new position, wrapping around the ordered distinct txn list. Only
// meaningful for ModeSerial phases.
func (p *Phase) NextSerialTxnType() string {
	p.serialMu.Lock()
	defer p.serialMu.Unlock()
	txn := p.txns[p.serialIdx%len(p.txns)]
	p.serialIdx++
	return txn
}

// ResetSerial rewinds the serial cursor to the start, called by
// switchToNextPhase whenever this Phase becomes current again.
func (p *Phase) ResetSerial() {
	p.serialMu.Lock()
	p.serialIdx = 0
	p.serialMu.Unlock()
}
