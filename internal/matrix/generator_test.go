package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idfctl/internal/combination"
	"idfctl/internal/config"
)

func testModel() *config.Model {
	return &config.Model{
		Metadata: config.Metadata{
			DefaultApp:       "gpio_test",
			DefaultBuildType: "Release",
			Target:           "esp32c6",
			IDFVersions:      []string{"release/v5.5", "release/v5.4"},
			VersionBuildTypes: map[string][]string{
				"release/v5.5": {"Debug", "Release"},
				"release/v5.4": {"Debug"},
			},
		},
		Apps: map[string]config.AppDefinition{
			"gpio_test": {
				Name:        "gpio_test",
				IDFVersions: []string{"release/v5.5"},
				BuildTypes:  []string{"Debug", "Release"},
				CIEnabled:   true,
			},
			"wifi_test": {Name: "wifi_test", CIEnabled: true},
			"bench_app": {Name: "bench_app", CIEnabled: false},
		},
		AppOrder: []string{"gpio_test", "wifi_test", "bench_app"},
		BuildTypes: map[string]config.BuildTypeDefinition{
			"Debug":   {Name: "Debug"},
			"Release": {Name: "Release"},
		},
		BuildTypeOrder: []string{"Debug", "Release"},
		CI: config.CIConfig{
			ExcludeCombinations: []map[string]string{
				{"app_name": "wifi_test", "idf_version": "release/v5.4"},
			},
		},
	}
}

func keys(rows []Row) []combination.Key {
	out := make([]combination.Key, len(rows))
	for i, r := range rows {
		out[i] = combination.Key{AppName: r.AppName, BuildType: r.BuildType, IDFVersion: r.IDFVersion}
	}
	return out
}

func TestGenerate_AllCombinations(t *testing.T) {
	rows := Generate(testModel(), Options{})

	assert.Equal(t, []combination.Key{
		{AppName: "gpio_test", BuildType: "Debug", IDFVersion: "release/v5.5"},
		{AppName: "gpio_test", BuildType: "Release", IDFVersion: "release/v5.5"},
		{AppName: "wifi_test", BuildType: "Debug", IDFVersion: "release/v5.5"},
		{AppName: "wifi_test", BuildType: "Release", IDFVersion: "release/v5.5"},
		{AppName: "wifi_test", BuildType: "Debug", IDFVersion: "release/v5.4"},
		{AppName: "bench_app", BuildType: "Debug", IDFVersion: "release/v5.5"},
		{AppName: "bench_app", BuildType: "Release", IDFVersion: "release/v5.5"},
		{AppName: "bench_app", BuildType: "Debug", IDFVersion: "release/v5.4"},
	}, keys(rows))
}

func TestGenerate_EveryRowIsValid(t *testing.T) {
	model := testModel()
	validator := combination.NewValidator(model)
	for _, row := range Generate(model, Options{}) {
		assert.True(t, validator.IsValid(row.AppName, row.BuildType, row.IDFVersion),
			"row %s %s %s must validate", row.AppName, row.BuildType, row.IDFVersion)
	}
}

func TestGenerate_CIOnlyFilter(t *testing.T) {
	rows := Generate(testModel(), Options{CIOnly: true})
	for _, row := range rows {
		assert.NotEqual(t, "bench_app", row.AppName)
	}
	assert.Len(t, rows, 5)
}

func TestGenerate_CIMatrixContainsEveryValidTripleOnce(t *testing.T) {
	model := testModel()
	validator := combination.NewValidator(model)
	rows := Generate(model, Options{CIOnly: true})

	seen := map[combination.Key]int{}
	for _, row := range rows {
		seen[combination.Key{AppName: row.AppName, BuildType: row.BuildType, IDFVersion: row.IDFVersion}]++
	}

	for _, appName := range model.AppOrder {
		app := model.Apps[appName]
		if !app.CIEnabled {
			continue
		}
		for _, version := range validator.EffectiveVersions(app) {
			for _, buildType := range model.BuildTypeOrder {
				key := combination.Key{AppName: appName, BuildType: buildType, IDFVersion: version}
				if validator.IsValid(appName, buildType, version) {
					assert.Equal(t, 1, seen[key], "valid triple %v must appear exactly once", key)
				} else {
					assert.Zero(t, seen[key], "invalid triple %v must not appear", key)
				}
			}
		}
	}
}

func TestGenerate_AppFilter(t *testing.T) {
	rows := Generate(testModel(), Options{App: "gpio_test"})
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, "gpio_test", row.AppName)
	}
}

func TestGenerate_Excludes(t *testing.T) {
	rows := Generate(testModel(), Options{ApplyExcludes: true})
	for _, row := range rows {
		if row.AppName == "wifi_test" {
			assert.NotEqual(t, "release/v5.4", row.IDFVersion)
		}
	}
}

func TestGenerate_DerivedFields(t *testing.T) {
	rows := Generate(testModel(), Options{App: "gpio_test"})
	require.NotEmpty(t, rows)
	row := rows[0]
	assert.Equal(t, "release-v5.5", row.IDFVersionDocker)
	assert.Equal(t, "release_v5_5", row.IDFVersionFile)
	assert.Equal(t, "espressif/idf:release-v5.5", row.ImageTag)
	assert.Equal(t, "esp32c6", row.Target)
	assert.Equal(t, "app", row.ConfigSource)

	rows = Generate(testModel(), Options{App: "wifi_test"})
	require.NotEmpty(t, rows)
	assert.Equal(t, "global", rows[0].ConfigSource)
}

func TestGenerate_EmptyModel(t *testing.T) {
	model := &config.Model{
		Apps:       map[string]config.AppDefinition{},
		BuildTypes: map[string]config.BuildTypeDefinition{},
	}
	rows := Generate(model, Options{})
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

// Removing a global version removes exactly the rows of every non-overriding
// app for that version; apps pinning their own versions are unaffected.
func TestGenerate_GlobalVersionRemoval(t *testing.T) {
	model := testModel()
	before := Generate(model, Options{})

	model.Metadata.IDFVersions = []string{"release/v5.5"}
	after := Generate(model, Options{})

	var removed []combination.Key
	afterSet := map[combination.Key]bool{}
	for _, k := range keys(after) {
		afterSet[k] = true
	}
	for _, k := range keys(before) {
		if !afterSet[k] {
			removed = append(removed, k)
		}
	}

	assert.Equal(t, []combination.Key{
		{AppName: "wifi_test", BuildType: "Debug", IDFVersion: "release/v5.4"},
		{AppName: "bench_app", BuildType: "Debug", IDFVersion: "release/v5.4"},
	}, removed)
}

func TestGenerate_Deterministic(t *testing.T) {
	model := testModel()
	first := Generate(model, Options{})
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, Generate(model, Options{}))
	}
}
