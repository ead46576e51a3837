// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store is the CRUD layer over the portal tables.

	s := store.New(conn)
	study, err := s.InsertStudy(ctx, models.StudyFromInfo(info))

InsertStudy is insert-or-fetch keyed on study_id. The other Insert methods
insert unconditionally and report primary key collisions as errors.

Point lookups return ErrEmptyID for an empty key and wrap ErrNotFound when
no row matches. GetSamplesByConditions and GetDatasetsByConditions accept a
map of attribute name to allowed values; unknown attributes are ignored.
*/
package store
