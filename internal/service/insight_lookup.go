package service

import (
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/noah-isme/univisa-api/internal/models"
)

// InsightSource resolves an optional community insight for a risk flag category.
// Implementations never fail; a missing insight is reported as nil.
type InsightSource interface {
	Lookup(category string) *string
}

// clusterLabels maps risk categories to the community cluster labels produced offline.
var clusterLabels = map[string]string{
	models.CategoryOPTApplicationTiming:  "OPT timing confusion",
	models.CategoryEnrollmentViolation:   "Enrollment status and full-time requirement",
	models.CategoryWorkHourViolation:     "On-campus work hour violations",
	models.CategoryWorkHoursApproaching:  "On-campus work hour violations",
	models.CategoryProgramEndApproaching: "OPT timing confusion",
	models.CategoryOPTExpiringSoon:       "OPT timing confusion",
}

// StaticInsightSource answers from an in-memory category to label table.
type StaticInsightSource struct {
	labels map[string]string
}

// NewStaticInsightSource builds a table-backed source. A nil table uses the built-in labels.
func NewStaticInsightSource(labels map[string]string) *StaticInsightSource {
	if labels == nil {
		labels = clusterLabels
	}
	return &StaticInsightSource{labels: labels}
}

// Lookup returns the raw table label for category.
func (s *StaticInsightSource) Lookup(category string) *string {
	label, ok := s.labels[category]
	if !ok || label == "" {
		return nil
	}
	return &label
}

type clusterEntry struct {
	Size        int      `json:"size"`
	SamplePosts []string `json:"sample_posts"`
	Label       string   `json:"label"`
}

// FileInsightSource upgrades table labels to "Community insight: <label>" when a
// cluster with the same label exists in a clusters.json file. The file is read on
// every lookup so a refreshed clustering run is picked up without a restart.
type FileInsightSource struct {
	path     string
	fallback *StaticInsightSource
	logger   *zap.Logger
}

// NewFileInsightSource constructs a file-backed source over the built-in table.
func NewFileInsightSource(path string, logger *zap.Logger) *FileInsightSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileInsightSource{path: path, fallback: NewStaticInsightSource(nil), logger: logger}
}

// Lookup returns the community insight for category, or the raw table label when
// the file is missing, unreadable or has no matching cluster.
func (s *FileInsightSource) Lookup(category string) *string {
	label := s.fallback.Lookup(category)
	if label == nil {
		return nil
	}
	clusters, err := s.readClusters()
	if err != nil {
		s.logger.Debug("insight file unavailable", zap.String("path", s.path), zap.Error(err))
		return label
	}
	for _, cluster := range clusters {
		if cluster.Label == *label {
			insight := fmt.Sprintf("Community insight: %s", cluster.Label)
			return &insight
		}
	}
	return label
}

func (s *FileInsightSource) readClusters() (map[string]clusterEntry, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(f).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode clusters: %w", err)
	}
	clusters := make(map[string]clusterEntry, len(raw))
	for id, payload := range raw {
		var entry clusterEntry
		// Entries that are not objects are skipped rather than failing the file.
		if err := json.Unmarshal(payload, &entry); err != nil {
			continue
		}
		clusters[id] = entry
	}
	return clusters, nil
}
