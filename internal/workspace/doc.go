// Package workspace builds the merge workspace: a fixed tree under
// <output>/BFGSDK with one branch per platform, each holding a version folder
// and a nested search folder.
//
// Rebuild is destructive. Any tree left by a previous run is removed before the
// new one is created, so the workspace always reflects the latest versions only.
package workspace
