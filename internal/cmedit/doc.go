// Package cmedit generates ENM cmedit command scripts for features.
//
// A Generator is bound to a Scope (a site or a collection) and produces,
// per feature, parameter reads grouped by MO class, parameter write
// templates, activation, deactivation and a feature state check. Activation
// plans from the dependency package are turned into one ordered script.
// Output is rendered from embedded text/template files with the sprig
// function set.
package cmedit
