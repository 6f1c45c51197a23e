package pipeline

import (
	"time"

	"github.com/intentguard/core/pkg/category"
	"github.com/intentguard/core/pkg/models"
)

// Step0Artifact is 0-raw-materials.json: the unified document list plus
// corpus stats and any soft-failed sources.
type Step0Artifact struct {
	Documents []models.RawDocument `json:"documents"`
	Stats     Step0Stats           `json:"stats"`
	Skipped   []SourceError        `json:"skipped,omitempty"`
}

type Step0Stats struct {
	Commits    int   `json:"commits"`
	Blogs      int   `json:"blogs"`
	Documents  int   `json:"documents"`
	VoiceMemos int   `json:"voiceMemos"`
	TotalBytes int64 `json:"totalBytes"`
}

// Step1Artifact is 1-document-processing.json.
type Step1Artifact struct {
	Documents         []models.ProcessedDocument `json:"documents"`
	KeywordFrequency  map[string]int             `json:"keywordFrequency"`
	PartitionIndex    map[models.Partition][]string `json:"partitionIndex,omitempty"`
}

// Step2Artifact is 2-categories-balanced.json.
type Step2Artifact struct {
	Categories      []CategoryReport `json:"categories"`
	Orthogonality   OrthogonalityReport `json:"orthogonality"`
	Balance         BalanceReport       `json:"balance"`
}

// CategoryReport is one category's entry in step 2's output, per §4.2
// step 2's required shape.
type CategoryReport struct {
	ID             category.Category `json:"id"`
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	Keywords       []string          `json:"keywords"`
	Weight         float64           `json:"weight"`
	TrustDebtUnits int               `json:"trustDebtUnits"`
	Percentage     float64           `json:"percentage"`
	Color          string            `json:"color"`
}

type OrthogonalityReport struct {
	Matrix         [][]float64 `json:"matrix"`
	AvgCorrelation float64     `json:"avgCorrelation"`
	MaxCorrelation float64     `json:"maxCorrelation"`
	MinCorrelation float64     `json:"minCorrelation"`
	Score          float64     `json:"score"`
	Passed         bool        `json:"passed"`
}

type BalanceReport struct {
	Min             float64 `json:"min"`
	Max             float64 `json:"max"`
	StdDeviation    float64 `json:"stdDeviation"`
	GiniCoefficient float64 `json:"giniCoefficient"`
	Balanced        bool    `json:"balanced"`
}

// Step3Artifact is 3-shortlex-validation.json: the presence matrix.
type Step3Artifact struct {
	Axes           []string       `json:"axes"`
	Cells          []MatrixCell   `json:"cells"`
	AsymmetryRatio float64        `json:"asymmetryRatio"`
	ShortLexValid  bool           `json:"shortLexValid"`
}

type MatrixCell struct {
	Row            string  `json:"row"`
	Col            string  `json:"col"`
	Intent         float64 `json:"intent"`
	Reality        float64 `json:"reality"`
	TrustDebtUnits float64 `json:"trustDebtUnits"`
	IsUpper        bool    `json:"isUpper"`
	IsLower        bool    `json:"isLower"`
	IsDiagonal     bool    `json:"isDiagonal"`
}

// Step4Artifact is 4-grades-statistics.json: the identity materialization.
type Step4Artifact struct {
	CategoryGrades   map[category.Category]CategoryGrade `json:"categoryGrades"`
	IntegrationScore float64                              `json:"integrationScore"`
	Identity         models.IdentityVector                `json:"identity"`
}

type CategoryGrade struct {
	TrustDebtUnits float64         `json:"trustDebtUnits"`
	Grade          category.Grade  `json:"grade"`
	Percentile     float64         `json:"percentile"`
	Trend          Trend           `json:"trend"`
	Evidence       []string        `json:"evidence,omitempty"`
}

type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
)

// Step5Artifact is 5-goal-alignment.json.
type Step5Artifact struct {
	Goals          []GoalAlignment `json:"goals"`
	OverallScore   float64         `json:"overallScore"`
	Recommendations []string       `json:"recommendations"`
}

type GoalAlignment struct {
	Name           string  `json:"name"`
	TargetCategory string  `json:"targetCategory"`
	AlignmentScore float64 `json:"alignmentScore"`
	Gap            float64 `json:"gap"`
}

// Step6Artifact is 6-analysis-narratives.json.
type Step6Artifact struct {
	ExecutiveSummary   string               `json:"executive_summary"`
	ColdSpots          []ColdSpot           `json:"cold_spots"`
	AsymmetricPatterns []AsymmetricPattern  `json:"asymmetric_patterns"`
	Narratives         []string             `json:"narratives"`
	Recommendations    []string             `json:"recommendations"`
	LegitimacyScore    float64              `json:"legitimacyScore"`
}

type ColdSpotSeverity string

const (
	SeverityFrozen ColdSpotSeverity = "frozen"
	SeverityArctic ColdSpotSeverity = "arctic"
	SeverityCold   ColdSpotSeverity = "cold"
	SeverityCool   ColdSpotSeverity = "cool"
)

type ColdSpot struct {
	Category category.Category `json:"category"`
	Score    float64           `json:"score"`
	Severity ColdSpotSeverity  `json:"severity"`
}

type AsymmetricPatternKind string

const (
	PatternDiagonalFailure    AsymmetricPatternKind = "diagonal_failure"
	PatternAdjacencyCluster   AsymmetricPatternKind = "adjacency_cluster"
	PatternConcentrationRisk  AsymmetricPatternKind = "concentration_risk"
)

type AsymmetricPattern struct {
	Kind        AsymmetricPatternKind `json:"kind"`
	Categories  []category.Category   `json:"categories"`
	Description string                `json:"description"`
}

// Step7Artifact is 7-final-report.json.
type Step7Artifact struct {
	RunID      string                `json:"runId"`
	GeneratedAt time.Time            `json:"generatedAt"`
	Identity   models.IdentityVector `json:"identity"`
	Categories []CategoryReport      `json:"categories"`
	Analysis   Step6Artifact         `json:"analysis"`
}

// AuditLog is 7-audit-log.json: re-validation of each prior step's
// required keys, per §4.2 step 7.
type AuditLog struct {
	RunID      string             `json:"runId"`
	GeneratedAt time.Time         `json:"generatedAt"`
	StepChecks []StepAuditEntry   `json:"stepChecks"`
}

type StepAuditEntry struct {
	StepNum      int                  `json:"stepNum"`
	Name         string               `json:"name"`
	ArtifactExists bool               `json:"artifactExists"`
	Validations  []models.Validation `json:"validations"`
}
