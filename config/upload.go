package config

type UploadConfig struct {
	AllowedMimeTypes  []string
	AllowedExtensions []string
	MaxSizeMB         int64
	PathPrefix        string
}

const ExcelImportContext = "excel_import"

var UploadContexts = map[string]UploadConfig{
	ExcelImportContext: {
		AllowedMimeTypes: []string{
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			"application/vnd.ms-excel",
			"application/x-ole-storage",
			"application/zip",
		},
		AllowedExtensions: []string{".xlsx", ".xls"},
		MaxSizeMB:         20,
		PathPrefix:        "imports",
	},
}
