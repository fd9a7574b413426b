package scaffolding

// ComponentTemplate is a builtin scaffold for a component source file.
type ComponentTemplate struct {
	Name        string
	Description string
	Category    string
	// Content is the component .html source as a text/template.
	Content string
	// DocContent is the sidecar markdown stub written with --with-docs.
	DocContent string
}

// TemplateContext holds the values spliced into a component template.
type TemplateContext struct {
	Name        string
	Title       string
	Version     string
	Description string
	Author      string
	Date        string
}

// GetBuiltinTemplates returns all built-in component templates.
func GetBuiltinTemplates() map[string]ComponentTemplate {
	return map[string]ComponentTemplate{
		"minimal": getMinimalTemplate(),
		"panel":   getPanelTemplate(),
		"banner":  getBannerTemplate(),
		"form":    getFormTemplate(),
	}
}

const docTemplate = `# {{.Title}}

{{.Description}}

- Source: ` + "`{{.Name}}.html`" + `
- Version: {{.Version}}
- Created: {{.Date}}

## Usage

Run the build, drag the bookmarklet from the install page to your bookmarks
bar, and pick "{{.Title}}" from the picker panel.
`

func getMinimalTemplate() ComponentTemplate {
	return ComponentTemplate{
		Name:        "minimal",
		Description: "Smallest possible component: one element, one rule, one handler",
		Category:    "starter",
		Content: `<!--
name: {{.Name}}
title: {{.Title}}
version: {{.Version}}
description: {{.Description}}
{{- if .Author}}
author: {{.Author}}
{{- end}}
-->
<style>
  .{{.Name}} {
    position: fixed;
    bottom: 16px;
    right: 16px;
    z-index: 2147483000;
    padding: 8px 12px;
    background: #1f2430;
    color: #e8e8e8;
    font: 13px/1.5 system-ui, sans-serif;
    border-radius: 6px;
  }
</style>
<script>
  (function (api) {
    var root = document.querySelector('.{{.Name}}');
    if (!root) {
      return;
    }
    root.onclick = function () {
      api.unmount('{{.Name}}');
    };
  })(window.__marklet);
</script>
<template>
  <div class="{{.Name}}" title="Click to dismiss">{{.Title}}</div>
</template>
`,
		DocContent: docTemplate,
	}
}

func getPanelTemplate() ComponentTemplate {
	return ComponentTemplate{
		Name:        "panel",
		Description: "Floating panel with a header and close button",
		Category:    "overlay",
		Content: `<!--
name: {{.Name}}
title: {{.Title}}
version: {{.Version}}
description: {{.Description}}
{{- if .Author}}
author: {{.Author}}
{{- end}}
tags: [overlay]
-->
<style>
  .{{.Name}} {
    position: fixed;
    top: 24px;
    right: 24px;
    z-index: 2147483000;
    min-width: 240px;
    background: #ffffff;
    color: #1f2937;
    font: 14px/1.5 system-ui, sans-serif;
    border: 1px solid #d1d5db;
    border-radius: 8px;
    box-shadow: 0 10px 30px rgba(0, 0, 0, 0.15);
  }
  .{{.Name}}-head {
    display: flex;
    justify-content: space-between;
    align-items: center;
    padding: 10px 12px;
    border-bottom: 1px solid #e5e7eb;
    font-weight: 600;
  }
  .{{.Name}}-close {
    border: 0;
    background: none;
    font-size: 16px;
    line-height: 1;
    cursor: pointer;
    color: inherit;
  }
  .{{.Name}}-body {
    padding: 12px;
  }
</style>
<script>
  (function (api) {
    var root = document.querySelector('.{{.Name}}');
    if (!root) {
      return;
    }
    var close = root.querySelector('.{{.Name}}-close');
    if (close) {
      close.onclick = function () {
        api.unmount('{{.Name}}');
      };
    }
  })(window.__marklet);
</script>
<template>
  <div class="{{.Name}}">
    <div class="{{.Name}}-head">
      <span>{{.Title}}</span>
      <button class="{{.Name}}-close" type="button">&#215;</button>
    </div>
    <div class="{{.Name}}-body">
      Panel content goes here.
    </div>
  </div>
</template>
`,
		DocContent: docTemplate,
	}
}

func getBannerTemplate() ComponentTemplate {
	return ComponentTemplate{
		Name:        "banner",
		Description: "Full-width notice bar pinned to the top of the page",
		Category:    "overlay",
		Content: `<!--
name: {{.Name}}
title: {{.Title}}
version: {{.Version}}
description: {{.Description}}
{{- if .Author}}
author: {{.Author}}
{{- end}}
tags: [overlay, notice]
-->
<style>
  .{{.Name}} {
    position: fixed;
    top: 0;
    left: 0;
    right: 0;
    z-index: 2147483000;
    display: flex;
    justify-content: center;
    align-items: center;
    gap: 12px;
    padding: 10px 16px;
    background: #1d4ed8;
    color: #ffffff;
    font: 14px/1.4 system-ui, sans-serif;
  }
  .{{.Name}}-dismiss {
    border: 0;
    background: none;
    color: inherit;
    font-size: 15px;
    cursor: pointer;
  }
</style>
<script>
  (function (api) {
    var root = document.querySelector('.{{.Name}}');
    if (!root) {
      return;
    }
    var dismiss = root.querySelector('.{{.Name}}-dismiss');
    if (dismiss) {
      dismiss.onclick = function () {
        api.unmount('{{.Name}}');
      };
    }
  })(window.__marklet);
</script>
<template>
  <div class="{{.Name}}">
    <span>{{.Title}}</span>
    <button class="{{.Name}}-dismiss" type="button">Dismiss</button>
  </div>
</template>
`,
		DocContent: docTemplate,
	}
}

func getFormTemplate() ComponentTemplate {
	return ComponentTemplate{
		Name:        "form",
		Description: "Small input form with a submit handler stub",
		Category:    "interaction",
		Content: `<!--
name: {{.Name}}
title: {{.Title}}
version: {{.Version}}
description: {{.Description}}
{{- if .Author}}
author: {{.Author}}
{{- end}}
tags: [form]
-->
<style>
  .{{.Name}} {
    position: fixed;
    bottom: 24px;
    left: 24px;
    z-index: 2147483000;
    display: flex;
    flex-direction: column;
    gap: 8px;
    padding: 14px;
    background: #ffffff;
    color: #1f2937;
    font: 14px/1.5 system-ui, sans-serif;
    border: 1px solid #d1d5db;
    border-radius: 8px;
    box-shadow: 0 10px 30px rgba(0, 0, 0, 0.15);
  }
  .{{.Name}}-input {
    padding: 6px 8px;
    border: 1px solid #9ca3af;
    border-radius: 5px;
    font: inherit;
  }
  .{{.Name}}-submit {
    padding: 6px 10px;
    border: 0;
    border-radius: 5px;
    background: #1d4ed8;
    color: #ffffff;
    font: inherit;
    cursor: pointer;
  }
</style>
<script>
  (function (api) {
    var root = document.querySelector('.{{.Name}}');
    if (!root) {
      return;
    }
    var form = root.querySelector('form');
    form.onsubmit = function (event) {
      event.preventDefault();
      var value = form.querySelector('.{{.Name}}-input').value;
      if (window.console && window.console.log) {
        window.console.log('{{.Name}}:', value);
      }
      api.unmount('{{.Name}}');
    };
  })(window.__marklet);
</script>
<template>
  <div class="{{.Name}}">
    <strong>{{.Title}}</strong>
    <form>
      <input class="{{.Name}}-input" type="text" placeholder="Type here" />
      <button class="{{.Name}}-submit" type="submit">Go</button>
    </form>
  </div>
</template>
`,
		DocContent: docTemplate,
	}
}
