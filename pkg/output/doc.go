// Package output reads a kernel output store back into typed objects:
// the simulation grid, the unknown quantities of the equation system,
// and the auxiliary quantities the run was asked to record. Quantities
// are classified by rank against the grid, and fluid fields support
// volume integration over the radial mesh.
package output
