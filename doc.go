/*
Package nexcas applies configuration-as-code to Nexus Repository Manager
instances.

A configuration document (see package config) describes the desired core
settings, security settings, blob stores, cleanup policies, repositories, and
capabilities of a Nexus instance. Before the document is parsed, its
placeholders referencing environment variables and files get interpolated
(see package interpolate), so that secrets don't need to be part of the
document itself.

A [Reconciler] then applies a configuration to a Nexus instance through a
nexus.Manager, such as the REST API client in package nexus:

	m := nexus.NewClient("http://localhost:8081",
	    nexus.WithCredentials("admin", password))
	err := nexcas.NewReconciler(m).Apply(ctx, cfg)

Objects already existing are updated, missing objects are created, and
optionally objects not mentioned in the configuration get pruned. A failing
step doesn't stop the remaining steps from being applied.
*/
package nexcas
