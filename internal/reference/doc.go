// Package reference scrapes maqamworld.com for the list of maqamat and the
// ajnas each maqam page links to, so the local data set can be compared
// against the published reference.
package reference
