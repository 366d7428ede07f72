package services

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/moabank/ai-risk-go/internal/utils"
)

// Classifier is the narrow adapter the scoring path calls. One implementation
// exists per supported classifier family, chosen once at artifact load time;
// scoring code never branches on model shape.
type Classifier interface {
	PredictProbability(values []float64) float64
}

// ModelArtifact is the serialized form of a pre-trained classifier: its
// version, decision threshold, the exact ordered feature schema it was
// trained against, and family-specific parameters.
type ModelArtifact struct {
	ModelVersion string             `json:"model_version"`
	ModelType    string             `json:"model_type"`
	Threshold    float64            `json:"threshold"`
	Features     []string           `json:"features"`
	Weights      map[string]float64 `json:"weights"`
	Intercept    float64            `json:"intercept"`
}

// EncodingTable maps categorical field values to their trained numeric codes.
type EncodingTable map[string]map[string]float64

// ArtifactStore loads the classifier artifact and its encoding table from
// durable storage. Load failures are startup-class.
type ArtifactStore interface {
	LoadClassifier() (*ModelArtifact, EncodingTable, error)
}

// FileArtifactStore reads the artifact and encoding map from JSON files.
type FileArtifactStore struct {
	ArtifactPath string
	EncodingPath string
}

func NewFileArtifactStore(artifactPath, encodingPath string) *FileArtifactStore {
	return &FileArtifactStore{ArtifactPath: artifactPath, EncodingPath: encodingPath}
}

func (s *FileArtifactStore) LoadClassifier() (*ModelArtifact, EncodingTable, error) {
	data, err := os.ReadFile(s.ArtifactPath)
	if err != nil {
		return nil, nil, utils.NewArtifactLoadError(s.ArtifactPath, err)
	}

	var artifact ModelArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, nil, utils.NewArtifactLoadError(s.ArtifactPath, err)
	}
	if artifact.ModelVersion == "" || len(artifact.Features) == 0 {
		return nil, nil, utils.NewArtifactLoadError(s.ArtifactPath,
			fmt.Errorf("artifact missing model_version or feature schema"))
	}

	encData, err := os.ReadFile(s.EncodingPath)
	if err != nil {
		return nil, nil, utils.NewArtifactLoadError(s.EncodingPath, err)
	}
	var encoders EncodingTable
	if err := json.Unmarshal(encData, &encoders); err != nil {
		return nil, nil, utils.NewArtifactLoadError(s.EncodingPath, err)
	}

	return &artifact, encoders, nil
}

// newClassifier constructs the scoring adapter for an artifact's family.
func newClassifier(artifact *ModelArtifact) (Classifier, error) {
	switch artifact.ModelType {
	case "logistic", "":
		weights := make([]float64, len(artifact.Features))
		for i, name := range artifact.Features {
			weights[i] = artifact.Weights[name]
		}
		return &logisticClassifier{weights: weights, intercept: artifact.Intercept}, nil
	default:
		return nil, fmt.Errorf("unsupported model type %q", artifact.ModelType)
	}
}

// logisticClassifier scores a feature row with a trained logistic model.
type logisticClassifier struct {
	weights   []float64
	intercept float64
}

func (c *logisticClassifier) PredictProbability(values []float64) float64 {
	z := c.intercept
	for i, w := range c.weights {
		if i < len(values) {
			z += w * values[i]
		}
	}
	return 1.0 / (1.0 + math.Exp(-z))
}
