package services

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/moabank/ai-risk-go/internal/models"
	"github.com/moabank/ai-risk-go/internal/utils"
)

// loadedModel is the immutable process-lifetime scoring state. Built once
// under the load lock, read without synchronization afterwards.
type loadedModel struct {
	classifier Classifier
	version    string
	threshold  float64
	schema     []string
	encoders   EncodingTable
}

// RiskService scores feature vectors against the pre-trained delinquency
// classifier. The artifact is loaded lazily at most once per process.
type RiskService struct {
	store   ArtifactStore
	explain *ExplanationEngine
	mu      sync.Mutex
	ready   atomic.Bool
	model   *loadedModel
}

func NewRiskService(store ArtifactStore) *RiskService {
	return &RiskService{store: store, explain: NewExplanationEngine()}
}

// Preload forces the artifact load so a broken artifact aborts startup
// instead of failing the first request.
func (s *RiskService) Preload() error {
	_, err := s.ensureLoaded()
	return err
}

// Ready reports whether the classifier artifact is loaded.
func (s *RiskService) Ready() bool {
	return s.ready.Load()
}

// ModelVersion returns the loaded artifact version, loading on demand.
func (s *RiskService) ModelVersion() (string, error) {
	model, err := s.ensureLoaded()
	if err != nil {
		return "", err
	}
	return model.version, nil
}

// ensureLoaded returns the loaded model, loading it exactly once. Uncontended
// calls take the atomic fast path; concurrent first calls serialize on the
// mutex and re-check before loading.
func (s *RiskService) ensureLoaded() (*loadedModel, error) {
	if s.ready.Load() {
		return s.model, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ready.Load() {
		return s.model, nil
	}

	artifact, encoders, err := s.store.LoadClassifier()
	if err != nil {
		return nil, err
	}
	classifier, err := newClassifier(artifact)
	if err != nil {
		return nil, utils.NewArtifactLoadError("classifier", err)
	}

	s.model = &loadedModel{
		classifier: classifier,
		version:    artifact.ModelVersion,
		threshold:  artifact.Threshold,
		schema:     artifact.Features,
		encoders:   encoders,
	}
	s.ready.Store(true)

	logrus.WithFields(logrus.Fields{
		"model_version": artifact.ModelVersion,
		"threshold":     artifact.Threshold,
		"features":      len(artifact.Features),
	}).Info("Classifier artifact loaded")

	return s.model, nil
}

// Score scores a built feature vector.
func (s *RiskService) Score(vec *models.FeatureVector) (*models.RiskResult, error) {
	raw := make(map[string]interface{}, len(models.FeatureNames))
	for name, value := range vec.ToMap() {
		raw[name] = value
	}
	return s.ScoreRaw(raw)
}

// ScoreRaw scores a loosely typed feature map, such as a request body.
// Fields outside the trained schema (identifiers, labels) are dropped;
// strings go through the encode table; malformed values coerce to 0.
func (s *RiskService) ScoreRaw(features map[string]interface{}) (*models.RiskResult, error) {
	model, err := s.ensureLoaded()
	if err != nil {
		return nil, err
	}

	row := make([]float64, len(model.schema))
	numeric := make(map[string]float64, len(model.schema))
	for i, name := range model.schema {
		value := coerceFeature(name, features[name], model.encoders)
		row[i] = value
		numeric[name] = value
	}

	prob := model.classifier.PredictProbability(row)
	if math.IsNaN(prob) || prob < 0 || prob > 1 {
		return nil, utils.NewScoringErrorf("classifier returned invalid probability %v", prob)
	}
	prob = round4(prob)

	label := 0
	if prob > model.threshold {
		label = 1
	}

	result := &models.RiskResult{
		Probability:  prob,
		Label:        label,
		Threshold:    model.threshold,
		ModelVersion: model.version,
		Explanation:  s.explain.Explain(numeric, prob, label),
	}

	logrus.WithFields(logrus.Fields{
		"probability":   result.Probability,
		"label":         result.Label,
		"model_version": result.ModelVersion,
	}).Info("Scored delinquency risk")

	return result, nil
}

// coerceFeature normalizes one raw feature value to a finite float64.
// Strings map through the encode table, unknown categories to -1. Anything
// malformed degrades to 0 with a warning rather than failing the request.
func coerceFeature(name string, value interface{}, encoders EncodingTable) float64 {
	switch v := value.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			logrus.WithField("feature", name).Warn("Coercing non-finite feature value to 0")
			return 0
		}
		return v
	case float32:
		return coerceFeature(name, float64(v), encoders)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case bool:
		if v {
			return 1
		}
		return 0
	case string:
		if table, ok := encoders[name]; ok {
			if code, ok := table[v]; ok {
				return code
			}
			return -1
		}
		logrus.WithField("feature", name).Warn("Coercing unencodable string feature to 0")
		return 0
	case nil:
		return 0
	default:
		logrus.WithField("feature", name).Warn("Coercing non-numeric feature value to 0")
		return 0
	}
}

// round4 rounds to the fixed response precision.
func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
