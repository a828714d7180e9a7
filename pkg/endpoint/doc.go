/*
Package endpoint routes resource specs to the store that can serve them.

# Endpoints

An Endpoint is a source or destination for data. Four kinds exist:

  - Store: resources inside container files. NewPE serves PE images
    (.exe, .dll, .sys, ...); NewRES serves .res files.
  - Files: whole files on the filesystem.
  - Dummy: accepts every spec and fails every operation, so nothing is
    ever silently dropped.
  - Router: an ordered combination of the above.

# Quick Start

	r := endpoint.NewRouter(endpoint.Options{})
	if err := r.Copy("logo.bmp", "app.exe|BITMAP|100|1033", types.AddOptions{}); err != nil {
	    return err
	}
	if err := r.Remove("app.exe|ICON|1"); err != nil {
	    return err
	}
	return r.Commit()

# Caching and Commit

A Store loads each container at most once, on first reference, and keeps
the parsed resource set in memory for the rest of the run. Add and Remove
only touch that in-memory set and mark the container dirty. Commit encodes
every dirty container once and replaces the file atomically (temp file in
the same directory, fsync, rename). A failing file does not stop the
others; Commit returns a *types.CommitError listing all failures.

Filesystem writes through Files are immediate; its Commit is a no-op.

# Concurrency

Endpoints are not safe for concurrent use. A run is expected to issue its
operations from one goroutine and to call Commit once at the end.
*/
package endpoint
