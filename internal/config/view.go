package config

import (
	"sort"

	"gopkg.in/yaml.v3"
)

// Redacted is the placeholder printed instead of credential values.
const Redacted = "<redacted>"

// MarshalRedactedYAML renders the resolved config as YAML in file order,
// replacing tokens and header values with a placeholder.
func (c *Config) MarshalRedactedYAML() ([]byte, error) {
	instances := mappingNode()
	for _, name := range c.order {
		inst := c.Instances[name]
		sections := mappingNode()
		for _, kind := range BackendKinds {
			svc, ok := inst.Services[kind]
			if !ok {
				continue
			}
			sections.Content = append(sections.Content, strNode(kind.SectionKey()), serviceNode(svc))
		}
		instances.Content = append(instances.Content, strNode(name), sections)
	}

	root := mappingNode(strNode("version"), strNode(c.Version))
	if c.DefaultInstance != "" {
		root.Content = append(root.Content, strNode("default_instance"), strNode(c.DefaultInstance))
	}
	root.Content = append(root.Content, strNode("instances"), instances)

	return yaml.Marshal(root)
}

func serviceNode(svc *ServiceConfig) *yaml.Node {
	n := mappingNode(strNode("url"), strNode(svc.URL))
	if svc.Username != nil {
		n.Content = append(n.Content, strNode("username"), strNode(*svc.Username))
	}
	if svc.Token != nil {
		n.Content = append(n.Content, strNode("token"), strNode(Redacted))
	}
	if len(svc.Headers) > 0 {
		keys := make([]string, 0, len(svc.Headers))
		for k := range svc.Headers {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		headers := mappingNode()
		for _, k := range keys {
			headers.Content = append(headers.Content, strNode(k), strNode(Redacted))
		}
		n.Content = append(n.Content, strNode("headers"), headers)
	}
	return n
}

func mappingNode(content ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Content: content}
}

func strNode(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}
