package deploy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Step names, in execution order.
const (
	StepSourceSync    = "source-sync"
	StepInstallDeps   = "install-deps"
	StepCollectStatic = "collect-static"
	StepMigrate       = "migrate"
)

// Plan describes the deployment commands. The step set and order are fixed;
// a plan file can only override the working directory and individual argv.
type Plan struct {
	Workdir       string   `yaml:"workdir"`
	SourceSync    []string `yaml:"source_sync"`
	InstallDeps   []string `yaml:"install_deps"`
	CollectStatic []string `yaml:"collect_static"`
	Migrate       []string `yaml:"migrate"`
}

// DefaultPlan returns the built-in deployment commands.
func DefaultPlan() Plan {
	return Plan{
		SourceSync:    []string{"git", "pull"},
		InstallDeps:   []string{"pip", "install", "-r", "requirements.txt"},
		CollectStatic: []string{"python", "manage.py", "collectstatic", "--noinput"},
		Migrate:       []string{"python", "manage.py", "migrate", "--noinput"},
	}
}

// LoadPlan reads a YAML plan file and applies it over the defaults. Fields
// absent from the file keep their default commands.
func LoadPlan(path string) (Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Plan{}, fmt.Errorf("read plan file: %w", err)
	}

	var filePlan Plan
	if err := yaml.Unmarshal(data, &filePlan); err != nil {
		return Plan{}, fmt.Errorf("parse plan file: %w", err)
	}

	plan := DefaultPlan()
	plan.Workdir = filePlan.Workdir
	if len(filePlan.SourceSync) > 0 {
		plan.SourceSync = filePlan.SourceSync
	}
	if len(filePlan.InstallDeps) > 0 {
		plan.InstallDeps = filePlan.InstallDeps
	}
	if len(filePlan.CollectStatic) > 0 {
		plan.CollectStatic = filePlan.CollectStatic
	}
	if len(filePlan.Migrate) > 0 {
		plan.Migrate = filePlan.Migrate
	}

	return plan, nil
}

// Steps expands the plan into the ordered step sequence.
func (p Plan) Steps() []Step {
	return []Step{
		{Name: StepSourceSync, Argv: p.SourceSync, Dir: p.Workdir},
		{Name: StepInstallDeps, Argv: p.InstallDeps, Dir: p.Workdir},
		{Name: StepCollectStatic, Argv: p.CollectStatic, Dir: p.Workdir},
		{Name: StepMigrate, Argv: p.Migrate, Dir: p.Workdir},
	}
}
