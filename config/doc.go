/*
Package config loads Nexus configuration-as-code documents.

A configuration document is a YAML file that first gets its placeholders
interpolated (see package interpolate) and then is decoded into a [Config].
Unknown keys are rejected. Optional booleans are tri-state, where an absent
value leaves the existing setting on a Nexus instance as it is.

	core:
	  baseUrl: https://nexus.example.org
	security:
	  anonymousAccess: false
	  users:
	    - username: admin
	      password: ${file:/run/secrets/admin-password}
	      roles: [{source: default, role: nx-admin}]
	repository:
	  blobStores:
	    - name: default
	      attributes: {file: {path: default}}

The configuration file is either passed explicitly or taken from the
NEXUS_CASC_CONFIG environment variable, see [Locate].
*/
package config
