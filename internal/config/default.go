package config

// DefaultConfigYAML returns a commented YAML string for init-config.
func DefaultConfigYAML() string {
	return `# intentgate daemon configuration
# Generated by: intentgate init-config
#
# Every field is optional. Omitted fields keep their built-in default.
# Environment variables (and a .env file in the working directory)
# override this file: INTENTGATE_STORE_BACKEND, INTENTGATE_STORE_PATH,
# INTENTGATE_REDIS_URL, INTENTGATE_MODEL, INTENTGATE_MODEL_DIR,
# INTENTGATE_LOG_LEVEL, INTENTGATE_LOG_FORMAT, INTENTGATE_AUDIT_LOG,
# INTENTGATE_ADDR.

# Where settings, the blocked-site list, the whitelist and the intent
# history are persisted.
#   backend: file | sqlite | redis | memory
#   path: file or sqlite location (default ~/.intentgate/state.json or state.db)
#   redis_url: redis://host:6379/0 (redis backend only)
#   redis_key: hash holding the settings document
store:
  backend: file
  redis_key: "intentgate:settings"

# Classifier snapshot. A <name>.yaml in dir takes precedence over the
# snapshot compiled into the binary. With watch on, edits to dir are
# picked up without a restart.
model:
  name: acc85.95
  dir: ~/.intentgate/models
  watch: true

# gRPC listener for the CLI and other local clients. Keep it on loopback.
server:
  addr: 127.0.0.1:7433

# How often the whitelist countdown badge is repainted.
badge:
  interval: 1s

# Diagnostics go to stderr. level: debug | info | warn | error
log:
  level: info
  format: text

# Hash-chained record of every gating decision. Empty disables it.
audit_log: ~/.intentgate/audit.jsonl

# Seeded into the blocked-site list on install.
default_sites:
  - facebook.com
  - twitter.com
  - instagram.com
  - youtube.com

# Option values written on install.
defaults:
  whitelist_time: 5        # minutes a site stays whitelisted after an accepted intent
  num_intent_entries: 20   # history entries shown
  enable_blobs: true
`
}
