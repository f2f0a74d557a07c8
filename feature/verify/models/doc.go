// Package models defines the data shapes the verifier compares: the
// authoritative SourceRecord and its search index counterpart, the
// IndexDocument. Both keep loosely encoded columns as rawval variants so the
// normalizers own all type coercion.
package models
