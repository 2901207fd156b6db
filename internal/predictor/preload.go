// Package predictor implements the preload predictor module: per-time-bucket
// frequency tables that predict which app a user will open next based on
// historical usage, ported from original_source/sim_modules/preload_predictor.py.
package predictor

import (
	"fmt"
	"io"
	"time"

	"github.com/snarg/uamp-sim/internal/alarm"
	"github.com/snarg/uamp-sim/internal/device"
	"github.com/snarg/uamp-sim/internal/dispatch"
	"github.com/snarg/uamp-sim/internal/module"
	"github.com/snarg/uamp-sim/internal/simevent"
)

// PreloadThreshold is the bucketed frequency weight an app must exceed
// before the predictor will act on it.
const PreloadThreshold = 20

// VerifyWindow is how long after a prediction an app.activity_usage event
// for the predicted app still counts as a correct, timely hit.
const VerifyWindow = 5 * time.Minute

// Handle is the subset of engine capabilities Preload needs: subscribing to
// events, registering alarms, reading the current time, and broadcasting
// the synthetic preload_app event.
type Handle interface {
	Subscribe(eventType simevent.Type, handler dispatch.Handler, filter dispatch.Filter)
	RegisterAlarm(a *alarm.Alarm)
	CurrentTime() time.Time
	Broadcast(event simevent.Event)
}

type prediction struct {
	appID     string
	timestamp time.Time
}

// bucket is a per-time-slot frequency table. order records app IDs in
// first-seen order so argmax can break ties deterministically — the same
// insertion-ordered-keys pattern internal/frequency's Counter uses for its
// event-type tally.
type bucket struct {
	freq  map[string]float64
	order []string
}

func newBucket() *bucket {
	return &bucket{freq: make(map[string]float64)}
}

func (b *bucket) increment(app string) {
	if _, seen := b.freq[app]; !seen {
		b.order = append(b.order, app)
	}
	b.freq[app]++
}

func (b *bucket) decay(factor float64) {
	for app := range b.freq {
		b.freq[app] *= factor
	}
}

// argmax returns the app with the highest weight, ties broken by
// first-inserted, and whether the bucket held any app at all.
func (b *bucket) argmax() (app string, weight float64, ok bool) {
	for _, candidate := range b.order {
		freq := b.freq[candidate]
		if !ok || freq > weight {
			app, weight, ok = candidate, freq, true
		}
	}
	return app, weight, ok
}

// Preload is the PreloadPredictor module.
type Preload struct {
	module.Base

	engine Handle

	intervalHours int
	depreciation  float64
	buckets       []*bucket
	// currentIndex is the bucket last touched by preload or verify — the
	// periodic decay alarm only decays this bucket, mirroring
	// original_source/sim_modules/preload_predictor.py's decrement(), which
	// only touches self.freq_count_list[self.index].
	currentIndex int

	pending          prediction
	totalPredictions int
	correct          int

	numLaunched     int
	prevAppLaunched string

	timelinessMin   float64
	timelinessMax   float64
	timelinessSum   float64
	timelinessCount int
}

// New constructs a Preload module. intervalHours must evenly divide 24.
func New(name string, engine Handle, intervalHours int, depreciation float64) *Preload {
	return &Preload{
		Base:          module.NewBase(name, module.PreloadPredictor),
		engine:        engine,
		intervalHours: intervalHours,
		depreciation:  depreciation,
	}
}

// Build subscribes to screen-unlock and app-usage events and registers the
// periodic decay alarm, per spec.md §4.7.
func (p *Preload) Build() error {
	if p.intervalHours <= 0 || 24%p.intervalHours != 0 {
		return &module.Error{Module: p.Name(), Reason: "interval_time must evenly divide 24"}
	}

	p.engine.Subscribe(simevent.Screen, p.preload, func(e simevent.Event) bool {
		payload, ok := e.Payload.(simevent.ScreenPayload)
		return ok && payload.State == device.ScreenUserPresent
	})
	p.engine.Subscribe(simevent.AppActivityUsage, p.verify, nil)

	numBuckets := 24 / p.intervalHours
	p.buckets = make([]*bucket, numBuckets)
	for i := range p.buckets {
		p.buckets[i] = newBucket()
	}

	a := alarm.NewPeriodic(p.engine.CurrentTime(), p.decay, time.Duration(p.intervalHours)*time.Hour, p.Name()+" decay")
	p.engine.RegisterAlarm(a)
	return nil
}

func (p *Preload) bucketIndex(t time.Time) int {
	return t.Hour() / p.intervalHours
}

// decay only touches the bucket last active (currentIndex), not every
// bucket — each intervalHours-wide slot decays only while it is the one
// whichever event last landed in, not by a sweep of every bucket.
func (p *Preload) decay() {
	p.buckets[p.currentIndex].decay(p.depreciation)
}

// preload fires on screen.USER_PRESENT: if the current time bucket has a
// high-confidence app, predict it and broadcast a synthetic preload_app event.
func (p *Preload) preload(event simevent.Event) {
	p.currentIndex = p.bucketIndex(event.Timestamp)
	bucket := p.buckets[p.currentIndex]

	highestApp, highestFreq, ok := bucket.argmax()
	if !ok {
		return
	}

	if highestFreq > PreloadThreshold {
		p.totalPredictions++
		p.pending = prediction{appID: highestApp, timestamp: event.Timestamp}
		p.engine.Broadcast(simevent.Event{
			Timestamp: event.Timestamp,
			Type:      simevent.PreloadApp,
			Payload:   simevent.PreloadAppPayload{AppID: highestApp},
		})
	}
}

// verify fires on every app.activity_usage event: it checks a pending
// prediction for a timely, correct hit, then records the launch into the
// current time bucket's frequency table.
func (p *Preload) verify(event simevent.Event) {
	payload, ok := event.Payload.(simevent.AppActivityUsagePayload)
	if !ok {
		return
	}

	if p.prevAppLaunched != payload.AppID {
		p.numLaunched++
	}
	p.prevAppLaunched = payload.AppID

	if !p.pending.timestamp.IsZero() {
		elapsed := event.Timestamp.Sub(p.pending.timestamp)
		if elapsed < VerifyWindow && payload.AppID == p.pending.appID {
			p.correct++
			p.pending = prediction{}
			timeDiff := elapsed.Seconds()
			if p.timelinessCount == 0 || timeDiff > p.timelinessMax {
				p.timelinessMax = timeDiff
			}
			if p.timelinessCount == 0 || timeDiff < p.timelinessMin {
				p.timelinessMin = timeDiff
			}
			p.timelinessSum += timeDiff
			p.timelinessCount++
		}
	}

	p.currentIndex = p.bucketIndex(event.Timestamp)
	p.buckets[p.currentIndex].increment(payload.AppID)
}

// PrintStats writes the module's accuracy and timeliness summary.
func (p *Preload) PrintStats(w io.Writer) {
	fmt.Fprintf(w, "num correct: %d\n", p.correct)
	fmt.Fprintf(w, "total prediction: %d\n", p.totalPredictions)
	fmt.Fprintf(w, "accuracy: %s\n", ratio(p.correct, p.totalPredictions))
	fmt.Fprintf(w, "converge: %s\n", ratio(p.correct, p.numLaunched))
	fmt.Fprintf(w, "timeliness: min - %v\n", p.timelinessMin)
	fmt.Fprintf(w, "timeliness: max - %v\n", p.timelinessMax)
	fmt.Fprintf(w, "timeliness: average - %s\n", ratioFloat(p.timelinessSum, float64(p.timelinessCount)))
}

func ratio(num, den int) string {
	if den == 0 {
		return "—"
	}
	return fmt.Sprintf("%v", float64(num)/float64(den))
}

func ratioFloat(num, den float64) string {
	if den == 0 {
		return "—"
	}
	return fmt.Sprintf("%v", num/den)
}

func (p *Preload) Finish() error {
	return nil
}
