/*
nexcas applies configuration as code to Nexus Repository Manager.

# Usage

	nexcas [flags] [config-file]

The configuration file defaults to the file named in $NEXUS_CASC_CONFIG.
Placeholders in the configuration file, such as $VAR, ${VAR:default}, and
${file:/run/secrets/password}, get interpolated before the configuration is
parsed.

# Flags

	    --debug                    enable debug logging
	    --dry-run                  print the interpolated configuration with redacted passwords instead of applying it
	-h, --help                     help for nexcas
	-p, --password string          Nexus password, defaults to $NEXUS_PASSWORD
	    --rate float               maximum number of requests per second, unlimited if zero
	    --require-version string   semantic version constraint the Nexus version must satisfy, such as ">= 3.40"
	    --strict                   reject configurations with unresolved placeholders
	    --url string               Nexus base URL, defaults to $NEXUS_URL (default "http://localhost:8081")
	-u, --user string              Nexus user, defaults to $NEXUS_USER (default "admin")
	-v, --version                  version for nexcas
*/
package main
