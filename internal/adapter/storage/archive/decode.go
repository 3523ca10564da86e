package archive

import (
	"fmt"

	dto "archive-registry/internal/adapter/storage/archive/dto"
	"archive-registry/internal/pkg/apperrors"

	"gopkg.in/yaml.v3"
)

// decodeArchives validates and decodes an archives document. JSON is a
// subset of YAML, so both encodings go through the YAML decoder.
func decodeArchives(data []byte) (dto.ArchiveRegistryRaw, error) {
	var raw dto.ArchiveRegistryRaw
	if err := decodeDocument(kindArchives, data, &raw); err != nil {
		return dto.ArchiveRegistryRaw{}, err
	}
	return raw, nil
}

// decodeNetworks validates and decodes a networks document.
func decodeNetworks(data []byte) (dto.NetworkRegistryRaw, error) {
	var raw dto.NetworkRegistryRaw
	if err := decodeDocument(kindNetworks, data, &raw); err != nil {
		return dto.NetworkRegistryRaw{}, err
	}
	return raw, nil
}

func decodeDocument(kind string, data []byte, out interface{}) error {
	var generic interface{}
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return fmt.Errorf("%w: failed to parse %s document: %v", apperrors.ErrInvalidRegistry, kind, err)
	}

	issues, err := validateDocument(kind, generic)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInternal, err)
	}
	if len(issues) > 0 {
		return fmt.Errorf("%w: %s document failed schema validation: %s",
			apperrors.ErrInvalidRegistry, kind, formatIssues(issues),
		)
	}

	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: failed to decode %s document: %v", apperrors.ErrInvalidRegistry, kind, err)
	}
	return nil
}
