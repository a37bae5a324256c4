package main

import (
	"cimrepo/internal/repository"
	"cimrepo/pkg/cim"
)

// seedQualifiers installs the standard DMTF qualifier declarations the
// resolver interprets into a freshly created namespace, so a server starts
// with usable flavor semantics without loading a full schema.
func seedQualifiers(repo *repository.Repository, namespace string) error {
	qualifiers, err := repo.QualifierStore(namespace)
	if err != nil {
		return err
	}
	for _, decl := range standardQualifiers() {
		if err := qualifiers.Create(decl.Name, decl); err != nil {
			return err
		}
	}
	return nil
}

func standardQualifiers() []*cim.QualifierDeclaration {
	return []*cim.QualifierDeclaration{
		{
			Name:  cim.QualifierKey,
			Type:  cim.TypeBoolean,
			Value: false,
			Scopes: map[cim.Scope]bool{
				cim.ScopeProperty: true, cim.ScopeReference: true,
			},
			Overridable: cim.Bool(false),
			ToSubclass:  cim.Bool(true),
		},
		{
			Name:  cim.QualifierAssociation,
			Type:  cim.TypeBoolean,
			Value: false,
			Scopes: map[cim.Scope]bool{
				cim.ScopeAssociation: true,
			},
			Overridable: cim.Bool(false),
			ToSubclass:  cim.Bool(true),
		},
		{
			Name: cim.QualifierOverride,
			Type: cim.TypeString,
			Scopes: map[cim.Scope]bool{
				cim.ScopeProperty: true, cim.ScopeReference: true, cim.ScopeMethod: true,
			},
			Overridable: cim.Bool(true),
			ToSubclass:  cim.Bool(false),
		},
		{
			Name:  "Abstract",
			Type:  cim.TypeBoolean,
			Value: false,
			Scopes: map[cim.Scope]bool{
				cim.ScopeClass: true, cim.ScopeAssociation: true, cim.ScopeIndication: true,
			},
			Overridable: cim.Bool(true),
			ToSubclass:  cim.Bool(false),
		},
		{
			Name:         "Description",
			Type:         cim.TypeString,
			Scopes:       map[cim.Scope]bool{cim.ScopeAny: true},
			Overridable:  cim.Bool(true),
			ToSubclass:   cim.Bool(true),
			Translatable: cim.Bool(true),
		},
		{
			Name:  "Static",
			Type:  cim.TypeBoolean,
			Value: false,
			Scopes: map[cim.Scope]bool{
				cim.ScopeProperty: true, cim.ScopeMethod: true,
			},
			Overridable: cim.Bool(false),
			ToSubclass:  cim.Bool(true),
		},
		{
			Name:  "In",
			Type:  cim.TypeBoolean,
			Value: true,
			Scopes: map[cim.Scope]bool{
				cim.ScopeParameter: true,
			},
			Overridable: cim.Bool(false),
			ToSubclass:  cim.Bool(true),
		},
		{
			Name:  "Out",
			Type:  cim.TypeBoolean,
			Value: false,
			Scopes: map[cim.Scope]bool{
				cim.ScopeParameter: true,
			},
			Overridable: cim.Bool(false),
			ToSubclass:  cim.Bool(true),
		},
	}
}
