// Package ebook2pdf converts a paginated, login-gated online ebook into a
// single PDF. It logs in on the user's behalf, harvests the session cookies,
// downloads every page and font, renders each page to PDF, merges the pages
// in order and streams progress and the result over a WebSocket.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, pdfcpu/, websocket/).
package ebook2pdf
