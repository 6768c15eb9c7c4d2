// Package config provides configuration management for the mediator.
//
// Configuration is loaded from a single directory containing mediator.yaml.
// The default directory is ~/.config/mediator; commands accept --config to
// point elsewhere. A missing file yields the defaults, a malformed one is an
// error.
//
// # File Format
//
//	status:
//	  driver: fs            # fs | memory | s3
//	  path: /usr/src/OpenYuma/microwave-model-status.xml
//	  rootSegment: /status
//	  refreshInterval: 5s
//	  watch: true
//	  s3:
//	    bucket: status
//	    key: microwave-model-status.xml
//	    region: eu-central-1
//	    endpoint: http://minio:9000
//	    pathStyle: true
//	metrics:
//	  enabled: true
//	  address: ":9464"
//	logging:
//	  level: info
//
// # Validation
//
// Validate collects every problem into a ConfigurationErrorCollection so a
// broken file is reported in one pass. Each entry carries the offending
// field and, where possible, a suggestion.
//
// # Environment Overrides
//
// The backend honours MEDIATOR_STATUS_DRIVER, MEDIATOR_STATUS_PATH and the
// MEDIATOR_STATUS_S3_* variables on top of the values loaded here.
package config
