package models

import (
	"sort"
	"time"
)

// TimeRecord is the best completion time for one (mode, topic) pair
type TimeRecord struct {
	Mode      string    `json:"mode"`
	TopicKey  string    `json:"topicKey"`
	TimeMs    int64     `json:"timeMs"`
	Date      time.Time `json:"date"`
	Accuracy  int       `json:"accuracy"`
	ItemCount int       `json:"itemCount"`
}

// TopicProgress tracks whether a topic was ever completed without mistakes
type TopicProgress struct {
	TopicID    string    `json:"topicId"`
	Completed  bool      `json:"completed"`
	BestTimeMs int64     `json:"bestTimeMs,omitempty"`
	BestDate   time.Time `json:"bestDate,omitempty"`
}

// PlayerProgress is the persisted progress of the single player
type PlayerProgress struct {
	BestTimes []TimeRecord             `json:"bestTimes"`
	Topics    map[string]TopicProgress `json:"topics"`
}

// TopicID builds the identifier under which a topic completion flag is stored
func TopicID(mode, topicKey string) string {
	return mode + "/" + topicKey
}

// BestTime returns the stored record for mode and topic, if any
func (p PlayerProgress) BestTime(mode, topicKey string) (TimeRecord, bool) {
	for _, rec := range p.BestTimes {
		if rec.Mode == mode && rec.TopicKey == topicKey {
			return rec, true
		}
	}
	return TimeRecord{}, false
}

// RecordBestTime stores rec if no record exists for its pair or if it is strictly faster.
// It reports whether the record was stored.
func (p *PlayerProgress) RecordBestTime(rec TimeRecord) bool {
	for i, existing := range p.BestTimes {
		if existing.Mode != rec.Mode || existing.TopicKey != rec.TopicKey {
			continue
		}
		if rec.TimeMs >= existing.TimeMs {
			return false
		}
		p.BestTimes[i] = rec
		return true
	}
	p.BestTimes = append(p.BestTimes, rec)
	return true
}

// IsTopicComplete reports the completion flag of a topic
func (p PlayerProgress) IsTopicComplete(topicID string) bool {
	return p.Topics[topicID].Completed
}

// MarkTopicComplete sets the completion flag and keeps the fastest perfect time.
// It reports whether the topic was not complete before.
func (p *PlayerProgress) MarkTopicComplete(topicID string, timeMs int64, date time.Time) bool {
	if p.Topics == nil {
		p.Topics = make(map[string]TopicProgress)
	}
	tp, ok := p.Topics[topicID]
	newlyCompleted := !ok || !tp.Completed
	tp.TopicID = topicID
	tp.Completed = true
	if tp.BestTimeMs == 0 || timeMs < tp.BestTimeMs {
		tp.BestTimeMs = timeMs
		tp.BestDate = date
	}
	p.Topics[topicID] = tp
	return newlyCompleted
}

// SetTopic replaces the stored state of a topic
func (p *PlayerProgress) SetTopic(tp TopicProgress) {
	if p.Topics == nil {
		p.Topics = make(map[string]TopicProgress)
	}
	p.Topics[tp.TopicID] = tp
}

// Clone returns a deep copy that shares no slices or maps with p
func (p PlayerProgress) Clone() PlayerProgress {
	out := PlayerProgress{}
	if p.BestTimes != nil {
		out.BestTimes = make([]TimeRecord, len(p.BestTimes))
		copy(out.BestTimes, p.BestTimes)
	}
	if p.Topics != nil {
		out.Topics = make(map[string]TopicProgress, len(p.Topics))
		for k, v := range p.Topics {
			out.Topics[k] = v
		}
	}
	return out
}

// IsEmpty reports whether nothing has been recorded yet
func (p PlayerProgress) IsEmpty() bool {
	return len(p.BestTimes) == 0 && len(p.Topics) == 0
}

// Equal compares two progress records ignoring the order of best times
func (p PlayerProgress) Equal(o PlayerProgress) bool {
	if len(p.BestTimes) != len(o.BestTimes) || len(p.Topics) != len(o.Topics) {
		return false
	}

	a, b := p.sortedBestTimes(), o.sortedBestTimes()
	for i := range a {
		if !a[i].equal(b[i]) {
			return false
		}
	}

	for id, tp := range p.Topics {
		other, ok := o.Topics[id]
		if !ok || !tp.equal(other) {
			return false
		}
	}
	return true
}

func (p PlayerProgress) sortedBestTimes() []TimeRecord {
	out := make([]TimeRecord, len(p.BestTimes))
	copy(out, p.BestTimes)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Mode != out[j].Mode {
			return out[i].Mode < out[j].Mode
		}
		return out[i].TopicKey < out[j].TopicKey
	})
	return out
}

func (r TimeRecord) equal(o TimeRecord) bool {
	return r.Mode == o.Mode &&
		r.TopicKey == o.TopicKey &&
		r.TimeMs == o.TimeMs &&
		r.Date.Equal(o.Date) &&
		r.Accuracy == o.Accuracy &&
		r.ItemCount == o.ItemCount
}

func (t TopicProgress) equal(o TopicProgress) bool {
	return t.TopicID == o.TopicID &&
		t.Completed == o.Completed &&
		t.BestTimeMs == o.BestTimeMs &&
		t.BestDate.Equal(o.BestDate)
}
