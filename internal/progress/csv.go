package progress

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"harjoitus/internal/models"
)

var ErrMalformedCSV = errors.New("malformed progress csv")

// Record kinds of the tagged format
const (
	KindBestTime = "best-time"
	KindTopic    = "topic"
)

var (
	header       = []string{"Kind", "Mode", "Topic", "TimeMs", "Date", "Accuracy", "ItemCount", "Completed"}
	legacyHeader = []string{"Type", "Mode", "TimeMs", "Date", "Accuracy", "VerbCount", "TavoiteId", "VerbTypes"}
)

const legacyTopicKind = "tavoite-progress"

// EncodeCSV writes progress in the tagged format; every field is quoted
func EncodeCSV(p models.PlayerProgress) []byte {
	var buf bytes.Buffer
	writeRow(&buf, header)

	for _, rec := range sortedBestTimes(p) {
		writeRow(&buf, []string{
			KindBestTime,
			rec.Mode,
			rec.TopicKey,
			strconv.FormatInt(rec.TimeMs, 10),
			formatDate(rec.Date),
			strconv.Itoa(rec.Accuracy),
			strconv.Itoa(rec.ItemCount),
			"",
		})
	}

	for _, tp := range sortedTopics(p) {
		timeMs := ""
		if tp.BestTimeMs != 0 {
			timeMs = strconv.FormatInt(tp.BestTimeMs, 10)
		}
		writeRow(&buf, []string{
			KindTopic,
			"",
			tp.TopicID,
			timeMs,
			formatDate(tp.BestDate),
			"",
			"",
			strconv.FormatBool(tp.Completed),
		})
	}
	return buf.Bytes()
}

func sortedBestTimes(p models.PlayerProgress) []models.TimeRecord {
	out := slices.Clone(p.BestTimes)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Mode != out[j].Mode {
			return out[i].Mode < out[j].Mode
		}
		return out[i].TopicKey < out[j].TopicKey
	})
	return out
}

func sortedTopics(p models.PlayerProgress) []models.TopicProgress {
	out := make([]models.TopicProgress, 0, len(p.Topics))
	for _, tp := range p.Topics {
		out = append(out, tp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TopicID < out[j].TopicID })
	return out
}

func writeRow(buf *bytes.Buffer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(strings.ReplaceAll(f, `"`, `""`))
		buf.WriteByte('"')
	}
	buf.WriteByte('\n')
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// ParseCSV reads the tagged format or the legacy one.
// Rows of an unknown kind are skipped with a warning.
func ParseCSV(data []byte, logger *zap.Logger) (models.PlayerProgress, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\ufeff"))))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	first, err := r.Read()
	if errors.Is(err, io.EOF) {
		return models.PlayerProgress{}, fmt.Errorf("%w: empty input", ErrMalformedCSV)
	}
	if err != nil {
		return models.PlayerProgress{}, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
	}

	var parse func([]string, *models.PlayerProgress) error
	switch {
	case sameHeader(first, header):
		parse = parseTaggedRow
	case sameHeader(first, legacyHeader):
		parse = parseLegacyRow
	default:
		return models.PlayerProgress{}, fmt.Errorf("%w: unexpected header %q", ErrMalformedCSV, strings.Join(first, ","))
	}

	var p models.PlayerProgress
	line := 1
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return models.PlayerProgress{}, fmt.Errorf("%w: line %d: %v", ErrMalformedCSV, line, err)
		}
		if isBlank(row) {
			continue
		}
		if len(row) != len(header) {
			return models.PlayerProgress{}, fmt.Errorf("%w: line %d has %d fields", ErrMalformedCSV, line, len(row))
		}
		if err := parse(row, &p); err != nil {
			if errors.Is(err, errUnknownKind) {
				logger.Warn("skipping progress row", zap.Int("line", line), zap.String("kind", row[0]))
				continue
			}
			return models.PlayerProgress{}, fmt.Errorf("%w: line %d: %v", ErrMalformedCSV, line, err)
		}
	}
	return p, nil
}

var errUnknownKind = errors.New("unknown record kind")

func parseTaggedRow(row []string, p *models.PlayerProgress) error {
	switch row[0] {
	case KindBestTime:
		rec, err := timeRecord(row[1], row[2], row[3], row[4], row[5], row[6])
		if err != nil {
			return err
		}
		p.RecordBestTime(rec)
	case KindTopic:
		tp, err := topicProgress(row[2], row[3], row[4], row[7])
		if err != nil {
			return err
		}
		p.SetTopic(tp)
	default:
		return errUnknownKind
	}
	return nil
}

// parseLegacyRow reads Type,Mode,TimeMs,Date,Accuracy,VerbCount,TavoiteId,VerbTypes rows.
// Best-time rows keep their topic in VerbTypes; progress rows keep the flag in VerbCount.
func parseLegacyRow(row []string, p *models.PlayerProgress) error {
	switch row[0] {
	case KindBestTime:
		rec, err := timeRecord(row[1], row[7], row[2], row[3], row[4], row[5])
		if err != nil {
			return err
		}
		p.RecordBestTime(rec)
	case legacyTopicKind:
		tp, err := topicProgress(row[6], row[2], row[3], row[5])
		if err != nil {
			return err
		}
		p.SetTopic(tp)
	default:
		return errUnknownKind
	}
	return nil
}

func timeRecord(mode, topic, timeMs, date, accuracy, itemCount string) (models.TimeRecord, error) {
	rec := models.TimeRecord{Mode: mode, TopicKey: topic}
	if mode == "" {
		return rec, errors.New("best time without mode")
	}

	var err error
	if rec.TimeMs, err = strconv.ParseInt(timeMs, 10, 64); err != nil {
		return rec, fmt.Errorf("time: %w", err)
	}
	if rec.Date, err = parseDate(date); err != nil {
		return rec, err
	}
	if rec.Accuracy, err = atoiOrZero(accuracy); err != nil {
		return rec, fmt.Errorf("accuracy: %w", err)
	}
	if rec.ItemCount, err = atoiOrZero(itemCount); err != nil {
		return rec, fmt.Errorf("item count: %w", err)
	}
	return rec, nil
}

func topicProgress(id, timeMs, date, completed string) (models.TopicProgress, error) {
	tp := models.TopicProgress{TopicID: id}
	if id == "" {
		return tp, errors.New("topic without id")
	}

	var err error
	if timeMs != "" {
		if tp.BestTimeMs, err = strconv.ParseInt(timeMs, 10, 64); err != nil {
			return tp, fmt.Errorf("time: %w", err)
		}
	}
	if tp.BestDate, err = parseDate(date); err != nil {
		return tp, err
	}
	if completed != "" {
		if tp.Completed, err = strconv.ParseBool(completed); err != nil {
			return tp, fmt.Errorf("completed: %w", err)
		}
	}
	return tp, nil
}

// parseDate accepts RFC 3339 or Unix milliseconds; empty means no date
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q is neither RFC 3339 nor epoch milliseconds", s)
	}
	return time.UnixMilli(ms).UTC(), nil
}

func atoiOrZero(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func sameHeader(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if strings.TrimSpace(got[i]) != want[i] {
			return false
		}
	}
	return true
}

func isBlank(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
