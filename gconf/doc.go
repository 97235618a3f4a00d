/*
Package gconf implements a configuration store intended to be used as a global,
in-database configuration.

Each extension keeps a single configuration entity under its package name. The
initial value is loaded from the genesis file (see InitConfig) and can later be
changed only by the configuration owner (see UpdateConfigurationHandler).
*/
package gconf
