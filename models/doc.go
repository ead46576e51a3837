// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, record and config-document types.

# Request Types

  - SubmissionData: seurat_info, dataset_info, study_info, protocol_info
  - MetaFeatureData: dataset, selected_features and the three special columns

# Response Types

  - HelloResponse: {"Message": ...} router greetings
  - NameCheckResponse: isUnique
  - MessageResponse: message, success, optional jobId
  - ProcessingStatus: status, log
  - ErrorResponse: error, message

# Records

One struct per table: Study, Dataset, Protocol, Subject, Clinpath, Sample, Data.
Study and Dataset ids are derived from names:

	study := models.StudyFromInfo(info)             // StudyID == StudyName
	dataset := models.DatasetFromInfo(d, id, file) // DatasetID == DatasetName

# Config Document

DatasetConfig mirrors dataset_info.toml. Sections: seurat, dataset, study,
protocol and, once metadata preparation ran, meta_features.

# Constants

Processing status values:

	StatusCompleted  = "completed"
	StatusProcessing = "processing"
	StatusFailed     = "failed"
*/
package models
