// Package jobcatch turns raw job-board documents into a normalized,
// deduplicated set of job offers. Feed documents are scanned for detail
// pages, detail pages are mined for labeled fields, and the resulting
// offers are persisted idempotently per source.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, fs/).
package jobcatch
