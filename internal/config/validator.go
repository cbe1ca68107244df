package config

import (
	"fmt"
	"strings"
)

// ValidationError describes one problem with a project manifest field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// ValidationResult collects manifest problems. Errors block launching,
// warnings do not.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// IsValid reports whether the manifest has no blocking errors.
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

func (r *ValidationResult) addError(field, message string) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Message: message})
}

func (r *ValidationResult) addWarning(field, message string) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Message: message})
}

// Validate checks the manifest for problems that would break the server
// lifecycle commands.
func (p *Project) Validate() *ValidationResult {
	result := &ValidationResult{}

	if strings.TrimSpace(p.Name) == "" {
		result.addError("name", "project name is empty")
	}

	if len(p.Console.LaunchCmd) == 0 {
		result.addError("console.launch_cmd", "launch command is empty")
	} else if strings.TrimSpace(p.Console.LaunchCmd[0]) == "" {
		result.addError("console.launch_cmd", "launch executable is empty")
	}

	if p.Versions.MCVersion == "" {
		result.addWarning("versions.mc_version", "no Minecraft version pinned, mod compatibility checks are disabled")
	}
	if p.Versions.FabricVersion == "" {
		result.addWarning("versions.fabric_version", "no Fabric loader version pinned")
	}

	for slug, version := range p.Mods {
		if version == "" {
			result.addWarning("mods."+slug, "no version recorded")
		}
	}

	return result
}
