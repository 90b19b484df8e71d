package cmd

import (
	"github.com/barfgo/reil/arch"
	"github.com/barfgo/reil/config"
	"github.com/barfgo/reil/smt"
)

// loadConfig reads the config file at cfgFile, or the default path if
// cfgFile is empty.
func loadConfig() (*config.Config, error) {
	if cfgFile == "" {
		return config.Load()
	}
	return config.LoadFrom(cfgFile)
}

// descriptorFor returns the arch.Descriptor for a configured target
// architecture name. x86-64 is the only descriptor this module ships;
// an unrecognized name falls back to it too, since arch.Descriptor is
// meant to be supplied by an external lifter in a real deployment.
func descriptorFor(cfg *config.Config) arch.Descriptor {
	switch cfg.Target.Architecture {
	default:
		return arch.NewX86_64()
	}
}

// backendForDryRun builds an in-memory smt.Backend that records
// assertions without shelling out to a solver — used by the commands
// (translate, debug) that only need to see the emitted SMT-LIB text, not
// a sat/unsat verdict. lint and xref do not translate and use no backend.
func backendForDryRun() smt.Backend {
	return smt.NewRecordingBackend()
}

// backendForSolving starts the configured solver subprocess, used by
// commands (equiv) that need an actual sat/unsat answer.
func backendForSolving(cfg *config.Config) (smt.Backend, error) {
	return smt.NewProcessBackend(smt.ProcessBackendOptions{
		Path: cfg.Solver.Path,
		Args: cfg.Solver.Args,
	})
}
