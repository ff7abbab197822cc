// Package main hosts the mchsplit CLI entrypoint and command graph.
//
// Running mchsplit with no subcommand converts cheats.xml in the working
// directory into one MelonDS .mch file per game under MCH/. The split
// subcommand does the same with explicit flags; check, history and config
// cover preflight, the optional run ledger and configuration scaffolding.
//
// Keep this package lean: conversion behaviour lives in internal/splitter and
// its collaborators. Commands here resolve configuration, build the logger
// and render results.
package main
