// SPDX-License-Identifier: MIT

// Package config loads the safelanes configuration file.
//
// A file looks like:
//
//	solver:
//	  alpha: 9
//	  lambda: 2e10
//	  min_angle_deg: 10
//	  jump_conductivity: 0.001
//	  workers: 4
//	  max_rounds: 0
//	log:
//	  level: info
//	  development: false
//	metrics:
//	  listen: ":9090"
//
// Every key is optional; a missing file yields Default(). Environment
// variables SAFELANES_LAMBDA, SAFELANES_WORKERS, SAFELANES_MAX_ROUNDS,
// SAFELANES_LOG_LEVEL and SAFELANES_METRICS_LISTEN override the file.
// The result is validated with struct tags before use.
package config
