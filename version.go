package metasim

// Version is the library release.
const Version = "0.1.0"
