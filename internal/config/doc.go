// Package config resolves the directory layout and symbol naming used by
// appbuild.
//
// Every value has a default matching the kernel repository, so the tool
// runs with zero parameters. An optional appbuild.{jsonc,json,yaml,yml,hcl}
// file in the working directory overrides individual fields:
//
//   - JSON files may contain comments (github.com/tidwall/jsonc)
//   - YAML files are decoded with gopkg.in/yaml.v3
//   - HCL files are decoded with github.com/hashicorp/hcl/v2/gohcl
//
// The include anchor is explicit configuration (AnchorDir) rather than
// being inferred from how deep the working directory sits in the tree.
package config
