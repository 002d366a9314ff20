package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ranfeat/internal/feature"
)

func readFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(data)
}

func TestParseDocument(t *testing.T) {
	rec, ok := ParseDocument("lte/ca.md", readFixture(t, "carrier_aggregation.md"))
	require.True(t, ok)

	assert.Equal(t, "Carrier Aggregation", rec.Name)
	assert.Equal(t, "CA", rec.Acronym)
	assert.Equal(t, "FAJ 121 0001", rec.FAJ)
	assert.Equal(t, "CXC4011001", rec.CXC)
	assert.Equal(t, []string{"LTE", "NR"}, rec.Access)
	assert.True(t, rec.License)
	assert.Equal(t, "lte/ca.md", rec.File)
	assert.Equal(t, "Combines several carriers to raise throughput.", rec.Summary)
	assert.Equal(t, &feature.ValuePackage{Name: "Advanced RAN", FAJ: "FAJ 801 0001"}, rec.ValuePackage)

	require.NotNil(t, rec.Metadata)
	assert.Equal(t, 3.5, rec.Metadata.ComplexityScore)
	assert.Equal(t, "ca.pdf", rec.Metadata.SourceFile)

	assert.Equal(t, []feature.Dependency{
		{Name: "Basic Scheduler", FAJ: "FAJ 121 0002", Type: "Prerequisite"},
		{Name: "Legacy Mode", FAJ: "FAJ 121 0003", Type: "Conflicting"},
	}, rec.Deps)

	require.NotEmpty(t, rec.ParamDetails)
	assert.Equal(t, feature.ParamDetail{
		Name:        "EUtranCellFDD.caEnabled",
		Type:        "Introduced",
		Description: "Enables carrier aggregation",
	}, rec.ParamDetails[0])
	assert.Equal(t, []string{
		"EUtranCellFDD.caEnabled",
		"EUtranCellFDD.pmCaActivations",
		"ENodeBFunction.pmCaTime",
	}, rec.Params)

	assert.Equal(t, []string{"ENodeBFunction.pmCaTime", "EUtranCellFDD.pmCaActivations"}, rec.Counters)
	assert.Equal(t, []string{"INTERNAL_EVENT_CA_START"}, rec.Events)
	assert.Equal(t, []string{"ENodeBFunction", "EUtranCellFDD", "FeatureState"}, rec.MOClasses)

	require.NotNil(t, rec.Activation)
	assert.Equal(t, []string{"The license key is installed.", "Basic Scheduler is active."}, rec.Activation.Prerequisites)
	assert.Equal(t, []string{
		"Set the attribute FeatureState=CXC4011001 featureState to ACTIVATED.",
		"Restart the cell.",
	}, rec.Activation.Steps)
	assert.Equal(t, "The feature is active.", rec.Activation.AfterTask)

	require.NotNil(t, rec.Deactivation)
	assert.Equal(t, []string{"Set featureState to DEACTIVATED."}, rec.Deactivation.Steps)

	assert.Equal(t, []feature.ChangeEntry{
		{Release: "24.Q1", Title: "Added NR support"},
		{Release: "23.Q4.1", Title: "Initial release"},
	}, rec.ChangeHistory)
	assert.Equal(t, []string{"24.Q1", "23.Q4.1"}, rec.Releases)
	assert.Equal(t, "24.Q1", rec.LatestRelease)
}

func TestParseDocument_RequiresIdentity(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no identity", "# 1 Orphan Overview\n\nSome text.\n"},
		{"no title", "| Feature Identity | FAJ 121 0009 |\n"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, ok := ParseDocument("x.md", tt.content)
			assert.False(t, ok)
			assert.Nil(t, rec)
		})
	}
}

func TestParseDocument_FrontMatterAcronym(t *testing.T) {
	content := "---\nacronym: MCPC\n---\n# 1 Mobility Control Overview\n\n| Feature Identity: | FAJ  121   3001 |\n"
	rec, ok := ParseDocument("m.md", content)
	require.True(t, ok)
	assert.Equal(t, "MCPC", rec.Acronym)
	assert.Equal(t, "FAJ 121 3001", rec.FAJ)
	assert.Equal(t, "Mobility Control", rec.Name)
	assert.False(t, rec.License)
	assert.Nil(t, rec.Activation)
	assert.Nil(t, rec.Deactivation)
}

func TestParseFrontMatter(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    *FrontMatter
	}{
		{"absent", "# Title\n", nil},
		{"unterminated", "---\nacronym: X\n", nil},
		{"invalid yaml", "---\n: [\n---\n", nil},
		{"valid", "---\nquality_score: 0.9\ntables_extracted: 4\n---\nbody", &FrontMatter{QualityScore: 0.9, TablesExtracted: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseFrontMatter(tt.content))
		})
	}
}

func TestSummary_FallsBackToOverview(t *testing.T) {
	content := "# 1 Load Balancing Overview\n\nMoves   traffic between cells.\n\n| Feature Identity | FAJ 121 0001 |\n"
	assert.Equal(t, "Moves traffic between cells.", Summary(content))
}

func TestGenerateAcronym(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Inter-Frequency Load Balancing", "IFLB"},
		{"UE Throughput-Aware IFLB", "UTA-IFLB"},
		{"Dynamic UE Admission Control", "DUAC"},
		{"Mobility Control at Poor Coverage", "MCPC"},
		{"IFLB", "IFLB"},
		{"Support for NR", "SN"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateAcronym(tt.name))
		})
	}
}
