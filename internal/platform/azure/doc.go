// Package azure implements the provider interfaces on Azure Resource
// Manager.
//
// Cloud services map to resource groups; every other resource lives in the
// configured resource group. Long-running ARM operations are awaited with
// PollUntilDone. A 404 from any Get is translated to provider.ErrNotFound and
// other response errors to *provider.FaultDetail carrying the ARM error code.
package azure
