// Command nexus scans the machine for installed games, enriches them
// with catalog metadata, and manages the resulting library.
package main
