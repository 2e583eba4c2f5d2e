// Package nodepkg implements the package manifest handler and the package
// manager adapter: dependency lists, the script table, engine constraints,
// and the install/run command surface of the chosen package manager.
package nodepkg

import (
	"encoding/json"
	"fmt"

	"github.com/vk/projgen/internal/projerr"
)

// PackageManager identifies the package manager the project is generated for.
type PackageManager string

const (
	PackageManagerNpm  PackageManager = "npm"
	PackageManagerYarn PackageManager = "yarn"
	PackageManagerPnpm PackageManager = "pnpm"
)

// TaskInvocation selects how emitted workflows and scripts invoke project
// tasks.
type TaskInvocation string

const (
	// InvokeDirect runs the task binary directly (e.g. "npx projgen build").
	InvokeDirect TaskInvocation = "direct"
	// InvokeScripts runs tasks through the package manager script table
	// (e.g. "yarn build").
	InvokeScripts TaskInvocation = "scripts"
)

// DependencyKind distinguishes the manifest section a dependency lands in.
type DependencyKind int

const (
	DependencyRuntime DependencyKind = iota
	DependencyDev
	DependencyPeer
)

// Package is the package manifest handler. It owns every mutation that
// ends up in package.json and renders it deterministically.
type Package struct {
	Name           string
	Version        string
	License        string
	Manager        PackageManager
	Invocation     TaskInvocation
	MinNodeVersion string

	deps     map[string]string
	devDeps  map[string]string
	peerDeps map[string]string
	scripts  map[string]string
}

// New creates a manifest handler for the given package manager. An
// unrecognized manager is a configuration error.
func New(name string, manager PackageManager, invocation TaskInvocation) (*Package, error) {
	switch manager {
	case PackageManagerNpm, PackageManagerYarn, PackageManagerPnpm:
	default:
		return nil, projerr.Config("package_manager", "unknown package manager %q", manager)
	}
	switch invocation {
	case InvokeDirect, InvokeScripts:
	default:
		return nil, projerr.Config("task_invocation", "unknown task invocation mode %q", invocation)
	}
	return &Package{
		Name:       name,
		Version:    "0.0.0",
		Manager:    manager,
		Invocation: invocation,
		deps:       make(map[string]string),
		devDeps:    make(map[string]string),
		peerDeps:   make(map[string]string),
		scripts:    make(map[string]string),
	}, nil
}

// AddDependency records a dependency in the section selected by kind. An
// empty version constraint means "latest" and renders as "*".
func (p *Package) AddDependency(name, version string, kind DependencyKind) {
	if version == "" {
		version = "*"
	}
	switch kind {
	case DependencyDev:
		p.devDeps[name] = version
	case DependencyPeer:
		p.peerDeps[name] = version
	default:
		p.deps[name] = version
	}
}

// HasDependency reports whether name appears in any manifest section.
func (p *Package) HasDependency(name string) bool {
	if _, ok := p.deps[name]; ok {
		return true
	}
	if _, ok := p.devDeps[name]; ok {
		return true
	}
	_, ok := p.peerDeps[name]
	return ok
}

// SetScript registers a manifest script. Later writes win; collaborators
// that must not clobber each other register distinct script names.
func (p *Package) SetScript(name, command string) {
	p.scripts[name] = command
}

// Script returns the registered command for name, or "".
func (p *Package) Script(name string) string {
	return p.scripts[name]
}

// InstallCommand returns the command workflows use to install
// dependencies. frozen pins the lockfile so CI fails on drift instead of
// amending it.
func (p *Package) InstallCommand(frozen bool) string {
	switch p.Manager {
	case PackageManagerYarn:
		if frozen {
			return "yarn install --check-files --frozen-lockfile"
		}
		return "yarn install --check-files"
	case PackageManagerPnpm:
		if frozen {
			return "pnpm i --frozen-lockfile"
		}
		return "pnpm i --no-frozen-lockfile"
	default:
		if frozen {
			return "npm ci"
		}
		return "npm install"
	}
}

// RunCommand returns the shell command that executes the named task
// according to the invocation mode.
func (p *Package) RunCommand(task string) string {
	if p.Invocation == InvokeDirect {
		return fmt.Sprintf("npx projgen %s", task)
	}
	switch p.Manager {
	case PackageManagerYarn:
		return fmt.Sprintf("yarn %s", task)
	case PackageManagerPnpm:
		return fmt.Sprintf("pnpm run %s", task)
	default:
		return fmt.Sprintf("npm run %s", task)
	}
}

// manifest mirrors the package.json document shape. Maps render with
// sorted keys, which keeps the artifact reproducible.
type manifest struct {
	Name             string            `json:"name"`
	Version          string            `json:"version"`
	License          string            `json:"license,omitempty"`
	Scripts          map[string]string `json:"scripts,omitempty"`
	Dependencies     map[string]string `json:"dependencies,omitempty"`
	DevDependencies  map[string]string `json:"devDependencies,omitempty"`
	PeerDependencies map[string]string `json:"peerDependencies,omitempty"`
	Engines          map[string]string `json:"engines,omitempty"`
}

// Render produces the package.json content.
func (p *Package) Render() ([]byte, error) {
	m := manifest{
		Name:    p.Name,
		Version: p.Version,
		License: p.License,
	}
	if len(p.scripts) > 0 {
		m.Scripts = p.scripts
	}
	if len(p.deps) > 0 {
		m.Dependencies = p.deps
	}
	if len(p.devDeps) > 0 {
		m.DevDependencies = p.devDeps
	}
	if len(p.peerDeps) > 0 {
		m.PeerDependencies = p.peerDeps
	}
	if p.MinNodeVersion != "" {
		m.Engines = map[string]string{"node": ">= " + p.MinNodeVersion}
	}
	out, err := json.MarshalIndent(&m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to render package manifest: %w", err)
	}
	return append(out, '\n'), nil
}
