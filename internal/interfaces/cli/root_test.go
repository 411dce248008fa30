package cli

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/config"
	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/domain/valuation"
	apperrors "github.com/DemirSacirovic/serbian-estate-intelligence/pkg/errors"
)

func TestNewRootCommand_RegistersSubcommands(t *testing.T) {
	root := NewRootCommand()

	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"hunt", "value", "track", "report", "migrate"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}
}

func TestNewRootCommand_PersistentFlags(t *testing.T) {
	root := NewRootCommand()
	pf := root.PersistentFlags()

	require.NotNil(t, pf.Lookup("config"))
	require.NotNil(t, pf.Lookup("log-level"))

	output := pf.Lookup("output")
	require.NotNil(t, output)
	assert.Equal(t, "table", output.DefValue)
}

func TestGetCLIContext_NotInitialized(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())

	_, err := GetCLIContext(cmd)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInternal))
}

func TestPersistentPreRun_EnvOnlyConfig(t *testing.T) {
	t.Setenv("ESTATE_DATABASE_USER", "estate")

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())

	opts := &RootOptions{OutputFormat: "JSON", LogLevel: "debug"}
	require.NoError(t, persistentPreRun(cmd, opts))

	cliCtx, err := GetCLIContext(cmd)
	require.NoError(t, err)
	require.NotNil(t, cliCtx.Config)
	assert.Equal(t, config.DefaultDBHost, cliCtx.Config.Database.Host)
	assert.NotNil(t, cliCtx.Logger)
	assert.True(t, cliCtx.wantsJSON())
}

func TestPersistentPreRun_MissingConfigFile(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())

	opts := &RootOptions{ConfigPath: "/nonexistent/estate.yaml"}
	assert.Error(t, persistentPreRun(cmd, opts))
}

func TestCriteriaFromConfig(t *testing.T) {
	got := criteriaFromConfig(config.CriteriaConfig{
		MaxPrice:    120000,
		MinArea:     35,
		MaxArea:     80,
		MinDiscount: 0.15,
		MinRating:   " aa ",
	})

	assert.Equal(t, 120000.0, got.MaxPrice)
	assert.Equal(t, 35.0, got.MinArea)
	assert.Equal(t, 80.0, got.MaxArea)
	assert.Equal(t, 0.15, got.MinDiscount)
	assert.Equal(t, valuation.RatingAA, got.MinRating)
}

func TestHuntConfig_MapsEngineAndWorker(t *testing.T) {
	cfg := &config.Config{}
	cfg.Engine.FocusCities = []string{"Beograd", "Novi Sad"}
	cfg.Engine.WindowDays = 45
	cfg.Engine.AreaTolerance = 0.25
	cfg.Engine.SparseAreaTolerance = 0.35
	cfg.Engine.RequireSameMunicipality = true
	cfg.Engine.TopOpportunities = 10
	cfg.Engine.DesperateThreshold = 70
	cfg.Engine.LockTTL = 45 * time.Second
	cfg.Worker.Concurrency = 4

	got := huntConfig(cfg)
	assert.Equal(t, []string{"Beograd", "Novi Sad"}, got.Cities)
	assert.Equal(t, 4, got.Concurrency)
	assert.Equal(t, 45, got.WindowDays)
	assert.Equal(t, 0.25, got.AreaTolerance)
	assert.Equal(t, 0.35, got.SparseAreaTolerance)
	assert.True(t, got.RequireSameMunicipality)
	assert.Equal(t, 10, got.TopOpportunities)
	assert.Equal(t, 70, got.DesperateThreshold)
	assert.Equal(t, 45*time.Second, got.LockTTL)
}

//Personal.AI order the ending
