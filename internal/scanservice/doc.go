// Package scanservice orchestrates library scans: adapters discover
// installed titles concurrently, the aggregator deduplicates them, the
// metadata resolver enriches each survivor, and the results merge into
// the library store without clobbering user edits.
package scanservice
