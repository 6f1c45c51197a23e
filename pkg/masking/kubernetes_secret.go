package masking

import (
	"bytes"
	"encoding/json"
	"io"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// MaskedSecretValue is the replacement string for masked Kubernetes Secret data values.
const MaskedSecretValue = "[MASKED_SECRET_DATA]"

var (
	yamlSecretPattern = regexp.MustCompile(`(?m)^kind:\s*Secret\s*$`)
	jsonSecretPattern = regexp.MustCompile(`"kind"\s*:\s*"Secret"`)
)

// KubernetesSecretMasker masks data/stringData fields in Kubernetes Secret
// manifests that show up embedded in design documents or commit diffs, while
// leaving ConfigMaps and other resource kinds untouched.
type KubernetesSecretMasker struct{}

func (m *KubernetesSecretMasker) Name() string { return "kubernetes_secret" }

func (m *KubernetesSecretMasker) AppliesTo(data string) bool {
	if !strings.Contains(data, "Secret") {
		return false
	}
	return yamlSecretPattern.MatchString(data) || jsonSecretPattern.MatchString(data)
}

// Mask detects JSON vs YAML and applies the matching parser. Returns the
// original data on parse/processing errors.
func (m *KubernetesSecretMasker) Mask(data string) string {
	trimmed := strings.TrimSpace(data)

	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		if masked := m.maskJSON(data); masked != data {
			return masked
		}
	}

	if masked := m.maskYAML(data); masked != data {
		return masked
	}

	return data
}

func (m *KubernetesSecretMasker) maskYAML(data string) string {
	decoder := yaml.NewDecoder(strings.NewReader(data))
	var documents []map[string]any
	anySecret := false

	for {
		var doc map[string]any
		err := decoder.Decode(&doc)
		if err == io.EOF {
			break
		}
		if err != nil {
			return data
		}
		if doc == nil {
			continue
		}

		if isKubernetesSecret(doc) {
			maskSecretFields(doc)
			maskAnnotationSecrets(doc)
			anySecret = true
		} else if isKubernetesList(doc) {
			if m.maskListItems(doc) {
				anySecret = true
			}
		}

		documents = append(documents, doc)
	}

	if !anySecret || len(documents) == 0 {
		return data
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	for _, doc := range documents {
		if err := encoder.Encode(doc); err != nil {
			return data
		}
	}
	if err := encoder.Close(); err != nil {
		return data
	}

	result := strings.TrimRight(buf.String(), "\n")
	if strings.HasSuffix(data, "\n") {
		result += "\n"
	}

	return result
}

func (m *KubernetesSecretMasker) maskJSON(data string) string {
	var obj map[string]any
	if err := json.Unmarshal([]byte(data), &obj); err != nil {
		return data
	}

	anyMasked := false

	if isKubernetesSecret(obj) {
		maskSecretFields(obj)
		maskAnnotationSecrets(obj)
		anyMasked = true
	} else if isKubernetesList(obj) {
		if m.maskJSONListItems(obj) {
			anyMasked = true
		}
	}

	if !anyMasked {
		return data
	}

	result, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return data
	}

	output := string(result)
	if strings.HasSuffix(data, "\n") {
		output += "\n"
	}

	return output
}

func (m *KubernetesSecretMasker) maskListItems(doc map[string]any) bool {
	items, ok := doc["items"]
	if !ok {
		return false
	}

	itemList, ok := items.([]any)
	if !ok {
		return false
	}

	anyMasked := false
	for _, item := range itemList {
		itemMap, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if isKubernetesSecret(itemMap) {
			maskSecretFields(itemMap)
			maskAnnotationSecrets(itemMap)
			anyMasked = true
		}
	}

	return anyMasked
}

func (m *KubernetesSecretMasker) maskJSONListItems(obj map[string]any) bool {
	items, ok := obj["items"]
	if !ok {
		return false
	}

	itemList, ok := items.([]any)
	if !ok {
		return false
	}

	anyMasked := false
	for _, item := range itemList {
		itemMap, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if isKubernetesSecret(itemMap) {
			maskSecretFields(itemMap)
			maskAnnotationSecrets(itemMap)
			anyMasked = true
		}
	}

	return anyMasked
}

func isKubernetesSecret(resource map[string]any) bool {
	kind, ok := resource["kind"].(string)
	if !ok {
		return false
	}
	return kind == "Secret" || kind == "SecretList"
}

func isKubernetesList(resource map[string]any) bool {
	kind, ok := resource["kind"].(string)
	if !ok {
		return false
	}
	return kind == "List" || strings.HasSuffix(kind, "List")
}

func maskSecretFields(resource map[string]any) {
	if kind, _ := resource["kind"].(string); kind == "SecretList" {
		if items, ok := resource["items"]; ok {
			if itemList, ok := items.([]any); ok {
				for _, item := range itemList {
					if itemMap, ok := item.(map[string]any); ok {
						maskSecretDataMaps(itemMap)
					}
				}
			}
		}
		return
	}

	maskSecretDataMaps(resource)
}

func maskSecretDataMaps(resource map[string]any) {
	for _, field := range []string{"data", "stringData"} {
		fieldVal, ok := resource[field]
		if !ok {
			continue
		}

		dataMap, ok := fieldVal.(map[string]any)
		if !ok {
			continue
		}

		for key := range dataMap {
			dataMap[key] = MaskedSecretValue
		}
	}
}

func maskAnnotationSecrets(resource map[string]any) {
	metadata, ok := resource["metadata"].(map[string]any)
	if !ok {
		return
	}

	annotations, ok := metadata["annotations"].(map[string]any)
	if !ok {
		return
	}

	for key, val := range annotations {
		strVal, ok := val.(string)
		if !ok || !strings.Contains(strVal, "Secret") {
			continue
		}

		var embedded map[string]any
		if err := json.Unmarshal([]byte(strVal), &embedded); err != nil {
			continue
		}

		if isKubernetesSecret(embedded) {
			maskSecretFields(embedded)
			masked, err := json.Marshal(embedded)
			if err != nil {
				continue
			}
			annotations[key] = string(masked)
		}
	}
}
